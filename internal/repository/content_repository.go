package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// ニュースレター購読者
type NewsletterRepository interface {
	//email重複は ErrConflict
	Subscribe(ctx context.Context, email string) (model.NewsletterSubscriber, error)
}

type FeaturedProductRepository interface {
	//display_order昇順
	List(ctx context.Context) ([]model.FeaturedProduct, error)
}

// CMSコンテンツの取得・保存
type CMSRepository interface {
	ListTestimonials(ctx context.Context) ([]model.Testimonial, error)
	ListBlogPosts(ctx context.Context) ([]model.BlogPost, error)
	FindBlogPostBySlug(ctx context.Context, slug string) (model.BlogPost, error)
	FindInfoPageBySlug(ctx context.Context, slug string) (model.InfoPage, error)
	CreateContactMessage(ctx context.Context, msg model.ContactMessage) (model.ContactMessage, error)
}

// サイト全体設定
type SiteConfigRepository interface {
	Get(ctx context.Context) (model.SiteConfiguration, error)
	ListSocialLinks(ctx context.Context) ([]model.SocialLink, error)
}
