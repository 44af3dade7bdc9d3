package product

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wichananm65/eco-shop-backend/internal/apperr"
	"github.com/wichananm65/eco-shop-backend/internal/eco"
)

// fixedClassifier labels every text the same way.
type fixedClassifier eco.Label

func (f fixedClassifier) Classify(string) eco.Classification {
	return eco.Classification{
		Label:         eco.Label(f),
		Confidence:    0.9,
		Probabilities: map[eco.Label]float64{eco.Label(f): 0.9},
	}
}

func newTestService(classifier eco.Classifier) *Service {
	assessor := eco.NewAssessor(eco.NewScorer(eco.DefaultRules()), classifier)
	return NewService(NewInMemoryRepository(nil), assessor, nil)
}

func sampleInput() Input {
	return Input{
		Name:         "Recycled Jacket",
		Category:     "mens-fashion",
		Price:        100,
		Description:  "Jacket made from recycled polyester with repairable zips.",
		Materials:    []string{"recycled polyester"},
		Packaging:    "plastic bag",
		ShippingType: "air",
		EcoTags:      []string{"repairable", "fair-trade"},
	}
}

func TestService_CreateDerivesEcoFields(t *testing.T) {
	svc := newTestService(fixedClassifier(eco.LabelHigh))

	p, err := svc.Create(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.Equal(t, 1, p.ID)
	// 50 + 15 - 10 - 20 + 10 + 15
	assert.Equal(t, 60, p.EcoScore)
	assert.Equal(t, eco.LabelHigh, p.AILabel)
	assert.InDelta(t, 0.9, p.AIConfidence, 1e-9)
	assert.Contains(t, p.AIKeywords.Positive, "recycled")
	assert.Contains(t, p.AIKeywords.Negative, "plastic")
	assert.Equal(t, eco.Breakdown{Materials: 30, Ethics: 30, Packaging: 5, Shipping: 0, Lifespan: 25}, p.EcoBreakdown)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestService_UpdateRecomputes(t *testing.T) {
	svc := newTestService(fixedClassifier(eco.LabelLow))
	ctx := context.Background()
	created, err := svc.Create(ctx, sampleInput())
	require.NoError(t, err)

	in := sampleInput()
	in.Packaging = "cardboard"
	in.ShippingType = "ground"
	updated, err := svc.Update(ctx, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 90, updated.EcoScore)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	_, err = svc.Update(ctx, 999, in)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestService_ValidationErrors(t *testing.T) {
	svc := newTestService(nil)
	_, err := svc.Create(context.Background(), Input{Price: -1})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.InputValidation))

	errs := ValidateInput(Input{Price: -1})
	assert.Len(t, errs, 4)
	assert.Contains(t, errs, "price")
}

func TestService_DegradesWithoutClassifier(t *testing.T) {
	svc := newTestService(nil)
	p, err := svc.Create(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.Equal(t, eco.LabelMedium, p.AILabel)
	assert.Zero(t, p.AIConfidence)
	assert.True(t, p.AIKeywords.Empty())
	// the rule score does not depend on the classifier
	assert.Equal(t, 60, p.EcoScore)
}

func TestService_OnChangeFiresOnWrites(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()
	calls := 0
	svc.OnChange(func(context.Context) { calls++ })

	p, err := svc.Create(ctx, sampleInput())
	require.NoError(t, err)
	_, err = svc.Update(ctx, p.ID, sampleInput())
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, p.ID))
	assert.Equal(t, 3, calls)

	// failed writes do not fire
	assert.Error(t, svc.Delete(ctx, p.ID))
	assert.Equal(t, 3, calls)

	_, err = svc.ResetProducts(ctx, SeedProducts())
	require.NoError(t, err)
	assert.Equal(t, 4, calls)
}

func TestService_ListPaging(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()
	stored, err := svc.ResetProducts(ctx, SeedProducts())
	require.NoError(t, err)
	require.Len(t, stored, len(SeedProducts()))
	for _, p := range stored {
		assert.NotZero(t, p.ID)
	}

	res, err := svc.List(ctx, ListQuery{Category: "mens-fashion", Limit: 2, Sort: SortEcoDesc})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, (res.Total+1)/2, res.Pages)
	require.Len(t, res.Products, 2)
	assert.GreaterOrEqual(t, res.Products[0].EcoScore, res.Products[1].EcoScore)
	for _, p := range res.Products {
		assert.Equal(t, "mens-fashion", p.Category)
	}

	empty, err := svc.List(ctx, ListQuery{Category: "garden"})
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Total)
	assert.Equal(t, 0, empty.Pages)
	assert.NotNil(t, empty.Products)
}

func TestService_ListHugePageIsEmpty(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()
	_, err := svc.ResetProducts(ctx, SeedProducts())
	require.NoError(t, err)

	require.NotPanics(t, func() {
		res, err := svc.List(ctx, ListQuery{Page: math.MaxInt, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, MaxPage, res.Page)
		assert.Empty(t, res.Products)
		assert.Equal(t, len(SeedProducts()), res.Total)
	})
}

func TestService_Explain(t *testing.T) {
	svc := newTestService(fixedClassifier(eco.LabelHigh))
	ctx := context.Background()
	p, err := svc.Create(ctx, sampleInput())
	require.NoError(t, err)

	got, a, err := svc.Explain(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, p.EcoScore, a.EcoScore)
	assert.Equal(t, eco.Explain(eco.LabelHigh, a.Evidence), a.Explanation)

	_, _, err = svc.Explain(ctx, 404)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestInMemoryQueryAlternatives(t *testing.T) {
	repo := NewInMemoryRepository([]Product{
		{ID: 1, Category: "c", Price: 100, EcoScore: 40},
		{ID: 2, Category: "c", Price: 80, EcoScore: 80},
		{ID: 3, Category: "c", Price: 120, EcoScore: 80},
		{ID: 4, Category: "c", Price: 121, EcoScore: 99},
		{ID: 5, Category: "d", Price: 100, EcoScore: 99},
		{ID: 6, Category: "c", Price: 100, EcoScore: 40},
		{ID: 7, Category: "c", Price: 90, EcoScore: 95},
	})
	out, err := repo.QueryAlternatives(context.Background(), AlternativeQuery{
		Category:  "c",
		MinPrice:  eco.PriceBand(100).Min,
		MaxPrice:  eco.PriceBand(100).Max,
		ExcludeID: 1,
		MinScore:  40,
	})
	require.NoError(t, err)
	ids := make([]int, 0, len(out))
	for _, p := range out {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []int{7, 2, 3}, ids)
}
