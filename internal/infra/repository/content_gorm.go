package repository

import (
	"context"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type newsletterGormRepository struct {
	db *gorm.DB
}

// DI
func NewNewsletterGormRepository(db *gorm.DB) repo.NewsletterRepository {
	return &newsletterGormRepository{db: db}
}

// 購読者を登録。email重複は ErrConflict。
func (r *newsletterGormRepository) Subscribe(ctx context.Context, email string) (model.NewsletterSubscriber, error) {
	sub := model.NewsletterSubscriber{Email: strings.ToLower(strings.TrimSpace(email))}
	if err := r.db.WithContext(ctx).Create(&sub).Error; err != nil {
		if isUniqueViolation(err) {
			return model.NewsletterSubscriber{}, repo.ErrConflict
		}
		return model.NewsletterSubscriber{}, err
	}
	return sub, nil
}

type featuredProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewFeaturedProductGormRepository(db *gorm.DB) repo.FeaturedProductRepository {
	return &featuredProductGormRepository{db: db}
}

// display_order昇順
func (r *featuredProductGormRepository) List(ctx context.Context) ([]model.FeaturedProduct, error) {
	var list []model.FeaturedProduct
	if err := r.db.WithContext(ctx).Order("display_order asc, id asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

type cmsGormRepository struct {
	db *gorm.DB
}

// DI
func NewCMSGormRepository(db *gorm.DB) repo.CMSRepository {
	return &cmsGormRepository{db: db}
}

func (r *cmsGormRepository) ListTestimonials(ctx context.Context) ([]model.Testimonial, error) {
	var list []model.Testimonial
	if err := r.db.WithContext(ctx).
		Where("is_visible = ?", true).
		Order("created_at desc").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *cmsGormRepository) ListBlogPosts(ctx context.Context) ([]model.BlogPost, error) {
	var list []model.BlogPost
	if err := r.db.WithContext(ctx).
		Where("is_published = ?", true).
		Order("created_at desc").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *cmsGormRepository) FindBlogPostBySlug(ctx context.Context, slug string) (model.BlogPost, error) {
	var b model.BlogPost
	err := r.db.WithContext(ctx).
		Where("slug = ? AND is_published = ?", slug, true).
		First(&b).Error
	if isNotFound(err) {
		return model.BlogPost{}, repo.ErrNotFound
	}
	if err != nil {
		return model.BlogPost{}, err
	}
	return b, nil
}

func (r *cmsGormRepository) FindInfoPageBySlug(ctx context.Context, slug string) (model.InfoPage, error) {
	var p model.InfoPage
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error
	if isNotFound(err) {
		return model.InfoPage{}, repo.ErrNotFound
	}
	if err != nil {
		return model.InfoPage{}, err
	}
	return p, nil
}

func (r *cmsGormRepository) CreateContactMessage(ctx context.Context, msg model.ContactMessage) (model.ContactMessage, error) {
	if err := r.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return model.ContactMessage{}, err
	}
	return msg, nil
}

type siteConfigGormRepository struct {
	db *gorm.DB
}

// DI
func NewSiteConfigGormRepository(db *gorm.DB) repo.SiteConfigRepository {
	return &siteConfigGormRepository{db: db}
}

// 設定は1行だけ想定（最初の行を返す）
func (r *siteConfigGormRepository) Get(ctx context.Context) (model.SiteConfiguration, error) {
	var cfg model.SiteConfiguration
	err := r.db.WithContext(ctx).Order("id asc").First(&cfg).Error
	if isNotFound(err) {
		return model.SiteConfiguration{}, repo.ErrNotFound
	}
	if err != nil {
		return model.SiteConfiguration{}, err
	}
	return cfg, nil
}

func (r *siteConfigGormRepository) ListSocialLinks(ctx context.Context) ([]model.SocialLink, error) {
	var list []model.SocialLink
	if err := r.db.WithContext(ctx).Order("id asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
