package usecase

import (
	"context"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// ContentUsecase はCMS・マーケティング系の読み取り中心の機能をまとめる。
// （コンテンツ編集は管理画面ではなくDB直というオペレーション）
type ContentUsecase struct {
	newsletterRepo repo.NewsletterRepository
	featuredRepo   repo.FeaturedProductRepository
	cmsRepo        repo.CMSRepository
	siteConfigRepo repo.SiteConfigRepository
	productRepo    repo.ProductRepository
}

// DI
func NewContentUsecase(
	newsletterRepo repo.NewsletterRepository,
	featuredRepo repo.FeaturedProductRepository,
	cmsRepo repo.CMSRepository,
	siteConfigRepo repo.SiteConfigRepository,
	productRepo repo.ProductRepository,
) *ContentUsecase {
	return &ContentUsecase{
		newsletterRepo: newsletterRepo,
		featuredRepo:   featuredRepo,
		cmsRepo:        cmsRepo,
		siteConfigRepo: siteConfigRepo,
		productRepo:    productRepo,
	}
}

func (u *ContentUsecase) SubscribeNewsletter(ctx context.Context, email string) (*SuccessResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, NewHTTPError(http.StatusBadRequest, "valid email required")
	}

	if _, err := u.newsletterRepo.Subscribe(ctx, email); err != nil {
		//既に購読済みでも成功として返す
		if err != repo.ErrConflict {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}
	return &SuccessResponse{Message: "subscribed"}, nil
}

type FeaturedProductOutput struct {
	Product      model.Product `json:"product"`
	DisplayOrder int64         `json:"display_order"`
}

func (u *ContentUsecase) ListFeaturedProducts(ctx context.Context) ([]FeaturedProductOutput, error) {
	entries, err := u.featuredRepo.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]FeaturedProductOutput, 0, len(entries))
	for _, e := range entries {
		p, err := u.productRepo.FindByID(ctx, e.ProductID)
		if err == repo.ErrNotFound {
			//掲載先の商品が消えていたらスキップ
			continue
		}
		if err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !p.IsActive {
			continue
		}
		out = append(out, FeaturedProductOutput{Product: p, DisplayOrder: e.DisplayOrder})
	}
	return out, nil
}

func (u *ContentUsecase) ListTestimonials(ctx context.Context) ([]model.Testimonial, error) {
	items, err := u.cmsRepo.ListTestimonials(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

func (u *ContentUsecase) ListBlogPosts(ctx context.Context) ([]model.BlogPost, error) {
	items, err := u.cmsRepo.ListBlogPosts(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

func (u *ContentUsecase) GetBlogPost(ctx context.Context, slug string) (model.BlogPost, error) {
	if strings.TrimSpace(slug) == "" {
		return model.BlogPost{}, NewHTTPError(http.StatusBadRequest, "invalid slug")
	}

	p, err := u.cmsRepo.FindBlogPostBySlug(ctx, slug)
	if err == repo.ErrNotFound {
		return model.BlogPost{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.BlogPost{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsPublished {
		return model.BlogPost{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return p, nil
}

func (u *ContentUsecase) GetInfoPage(ctx context.Context, slug string) (model.InfoPage, error) {
	if strings.TrimSpace(slug) == "" {
		return model.InfoPage{}, NewHTTPError(http.StatusBadRequest, "invalid slug")
	}

	p, err := u.cmsRepo.FindInfoPageBySlug(ctx, slug)
	if err == repo.ErrNotFound {
		return model.InfoPage{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.InfoPage{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

type ContactMessageInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (u *ContentUsecase) SubmitContactMessage(ctx context.Context, in ContactMessageInput) (*SuccessResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "name required")
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, NewHTTPError(http.StatusBadRequest, "valid email required")
	}
	if strings.TrimSpace(in.Message) == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "message required")
	}

	if _, err := u.cmsRepo.CreateContactMessage(ctx, model.ContactMessage{
		Name:    strings.TrimSpace(in.Name),
		Email:   email,
		Subject: strings.TrimSpace(in.Subject),
		Message: strings.TrimSpace(in.Message),
	}); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return &SuccessResponse{Message: "message received"}, nil
}

type SiteConfigOutput struct {
	Config      model.SiteConfiguration `json:"config"`
	SocialLinks []model.SocialLink      `json:"social_links"`
}

func (u *ContentUsecase) GetSiteConfig(ctx context.Context) (SiteConfigOutput, error) {
	cfg, err := u.siteConfigRepo.Get(ctx)
	if err != nil && err != repo.ErrNotFound {
		return SiteConfigOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	links, err := u.siteConfigRepo.ListSocialLinks(ctx)
	if err != nil {
		return SiteConfigOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return SiteConfigOutput{Config: cfg, SocialLinks: links}, nil
}
