package product

func ptrString(s string) *string { return &s }

// SeedProducts is the sample catalog loaded when running without a database
// and by the dev reset endpoint when no body is sent.
func SeedProducts() []Input {
	return []Input{
		{
			Name:         "Organic Cotton Men's T-Shirt",
			Brand:        "EarthThreads",
			Category:     "mens-fashion",
			Price:        1299,
			Description:  "Soft and breathable organic cotton t-shirt.",
			Materials:    []string{"organic cotton"},
			Packaging:    "paper bag",
			ShippingType: "ground",
			EcoTags:      []string{"organic", "ethical"},
			Image:        ptrString("/images/organic-tee.jpg"),
		},
		{
			Name:         "Polyester Men's Graphic Tee",
			Brand:        "QuickFit",
			Category:     "mens-fashion",
			Price:        1199,
			Description:  "Trendy graphic tee made from polyester, shipped by air.",
			Materials:    []string{"polyester"},
			Packaging:    "plastic wrap",
			ShippingType: "air",
			EcoTags:      []string{"synthetic"},
		},
		{
			Name:         "Recycled Denim Jeans",
			Brand:        "BlueCycle",
			Category:     "mens-fashion",
			Price:        1499,
			Description:  "Slim fit jeans made from recycled denim.",
			Materials:    []string{"recycled cotton"},
			Packaging:    "recyclable cardboard",
			ShippingType: "ground",
			EcoTags:      []string{"recycled", "repairable"},
		},
		{
			Name:         "Organic Linen Dress",
			Brand:        "PureWear",
			Category:     "womens-fashion",
			Price:        3499,
			Description:  "Elegant linen summer dress, fair trade certified.",
			Materials:    []string{"organic linen"},
			Packaging:    "paper",
			ShippingType: "ground",
			EcoTags:      []string{"natural", "fair-trade"},
		},
		{
			Name:         "Fast Fashion Party Dress",
			Brand:        "ShineNow",
			Category:     "womens-fashion",
			Price:        2999,
			Description:  "Trendy sequin dress made with synthetic fibers.",
			Materials:    []string{"polyester"},
			Packaging:    "plastic wrap",
			ShippingType: "air",
			EcoTags:      []string{"synthetic"},
		},
		{
			Name:         "Recycled Wool Cardigan",
			Brand:        "LoopKnit",
			Category:     "womens-fashion",
			Price:        3299,
			Description:  "Warm cardigan knitted from recycled wool, reusable garment bag.",
			Materials:    []string{"recycled wool"},
			Packaging:    "reusable cotton bag",
			ShippingType: "sea",
			EcoTags:      []string{"recycled", "fair-trade"},
		},
		{
			Name:         "Eco-Edition Smartphone",
			Brand:        "GreenTech",
			Category:     "mobiles-computers",
			Price:        29999,
			Description:  "Energy-efficient phone with a recycled aluminum body.",
			Materials:    []string{"recycled aluminum"},
			Packaging:    "minimal paper packaging",
			ShippingType: "ground",
			EcoTags:      []string{"recycled", "repairable"},
		},
		{
			Name:         "Standard Budget Smartphone",
			Brand:        "FastCell",
			Category:     "mobiles-computers",
			Price:        27999,
			Description:  "Affordable smartphone with a plastic body.",
			Materials:    []string{"plastic", "glass"},
			Packaging:    "plastic tray",
			ShippingType: "air",
			EcoTags:      []string{},
		},
		{
			Name:         "Modular Repairable Laptop",
			Brand:        "FixBook",
			Category:     "mobiles-computers",
			Price:        32999,
			Description:  "Laptop with swappable parts and a recycled aluminum chassis.",
			Materials:    []string{"recycled aluminum"},
			Packaging:    "recycled cardboard",
			ShippingType: "sea",
			EcoTags:      []string{"repairable", "fair-trade"},
		},
	}
}
