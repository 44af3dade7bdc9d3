package product

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/wichananm65/eco-shop-backend/internal/apperr"
	"github.com/wichananm65/eco-shop-backend/internal/eco"
	"github.com/wichananm65/eco-shop-backend/internal/platform/logger"
)

type Service struct {
	repo     Repository
	assessor *eco.Assessor
	log      *logger.Logger
	now      func() time.Time
	onChange []func(context.Context)
}

func NewService(repo Repository, assessor *eco.Assessor, log *logger.Logger) *Service {
	if assessor == nil {
		assessor = eco.NewAssessor(nil, nil)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repo: repo, assessor: assessor, log: log, now: time.Now}
}

// OnChange registers fn to run after every successful catalog write.
func (s *Service) OnChange(fn func(context.Context)) {
	s.onChange = append(s.onChange, fn)
}

func (s *Service) changed(ctx context.Context) {
	for _, fn := range s.onChange {
		fn(ctx)
	}
}

func (s *Service) Assessor() *eco.Assessor { return s.assessor }

func (s *Service) List(ctx context.Context, q ListQuery) (ListResult, error) {
	q = q.normalized()
	products, total, err := s.repo.List(ctx, q)
	if err != nil {
		return ListResult{}, apperr.Wrap(apperr.Internal, "product.list", err)
	}
	pages := (total + q.Limit - 1) / q.Limit
	return ListResult{Page: q.Page, Total: total, Pages: pages, Products: products}, nil
}

func (s *Service) GetByID(ctx context.Context, id int) (Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Product{}, wrapRepoErr("product.get", err)
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, in Input) (Product, error) {
	if err := validate(in); err != nil {
		return Product{}, err
	}
	p := s.assess(in.product())
	p.CreatedAt = s.now().UTC()
	p.UpdatedAt = p.CreatedAt
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return Product{}, apperr.Wrap(apperr.Internal, "product.create", err)
	}
	s.log.Info("product created", "product_id", created.ID, "eco_score", created.EcoScore, "ai_label", created.AILabel)
	s.changed(ctx)
	return created, nil
}

// Update replaces the product's fields and re-derives every eco field.
func (s *Service) Update(ctx context.Context, id int, in Input) (Product, error) {
	if err := validate(in); err != nil {
		return Product{}, err
	}
	p := s.assess(in.product())
	p.UpdatedAt = s.now().UTC()
	updated, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return Product{}, wrapRepoErr("product.update", err)
	}
	s.changed(ctx)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return wrapRepoErr("product.delete", err)
	}
	s.changed(ctx)
	return nil
}

// ResetProducts replaces the whole catalog (used for dev / seeding). Every
// input is assessed like a regular create.
func (s *Service) ResetProducts(ctx context.Context, inputs []Input) ([]Product, error) {
	now := s.now().UTC()
	products := make([]Product, 0, len(inputs))
	for i, in := range inputs {
		if err := validate(in); err != nil {
			return nil, fmt.Errorf("product %d: %w", i, err)
		}
		p := s.assess(in.product())
		// keep seed order visible under the default newest-first sort
		p.CreatedAt = now.Add(-time.Duration(i) * time.Second)
		p.UpdatedAt = p.CreatedAt
		products = append(products, p)
	}
	stored, err := s.repo.Reset(ctx, products)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "product.reset", err)
	}
	s.log.Info("catalog reset", "products", len(stored))
	s.changed(ctx)
	return stored, nil
}

// Alternatives returns the raw neighborhood for q; ranking is done by the
// caller.
func (s *Service) Alternatives(ctx context.Context, q AlternativeQuery) ([]Product, error) {
	out, err := s.repo.QueryAlternatives(ctx, q)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "product.alternatives", err)
	}
	return out, nil
}

// Explain re-derives the assessment of a stored product.
func (s *Service) Explain(ctx context.Context, id int) (Product, eco.Assessment, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Product{}, eco.Assessment{}, err
	}
	return p, s.assessor.Assess(p.Description, p.Attributes()), nil
}

func (s *Service) assess(p Product) Product {
	a := s.assessor.Assess(p.Description, p.Attributes())
	if a.Degraded {
		s.log.Warn("classifier unavailable, using default label", "product", p.Name)
	}
	p.EcoScore = a.EcoScore
	p.EcoBreakdown = a.Breakdown
	p.AILabel = a.Label
	p.AIConfidence = a.Confidence
	p.AIKeywords = a.Evidence
	return p
}

func wrapRepoErr(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.Wrap(apperr.NotFound, op, err)
	}
	return apperr.Wrap(apperr.Internal, op, err)
}

// ValidateInput returns one message per invalid field.
func ValidateInput(in Input) map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		errs["name"] = "name is required"
	}
	if strings.TrimSpace(in.Category) == "" {
		errs["category"] = "category is required"
	}
	if strings.TrimSpace(in.Description) == "" {
		errs["description"] = "description is required"
	}
	if in.Price < 0 {
		errs["price"] = "price must be >= 0"
	}
	return errs
}

func validate(in Input) error {
	errs := ValidateInput(in)
	if len(errs) == 0 {
		return nil
	}
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return apperr.New(apperr.InputValidation, "product.validate", errs[fields[0]])
}
