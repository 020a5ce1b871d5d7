package banner

import (
	"errors"
	"fmt"
	"time"

	banner_db "ms-eventhub/internal/banner/db"
	"ms-eventhub/internal/models"
	"ms-eventhub/internal/validation"

	"github.com/google/uuid"
)

var ErrBannerNotFound = errors.New("banner not found")

type BannerDBLayer interface {
	CreateBanner(banner models.Banner) error
	GetBannerByID(id string) (*models.Banner, error)
	UpdateBanner(banner models.Banner) error
	DeleteBanner(id string) error
	ListBanners(limit, page int, search string, showOnly bool) ([]models.Banner, int, error)
}

type BannerService struct {
	DB BannerDBLayer
}

func NewBannerService(db BannerDBLayer) *BannerService {
	return &BannerService{DB: db}
}

func (s *BannerService) CreateBanner(req models.BannerRequest) (*models.Banner, error) {
	if ferr := validation.Struct(req); ferr != nil {
		return nil, ferr
	}

	banner := models.Banner{
		ID:        uuid.NewString(),
		Title:     req.Title,
		Image:     req.Image,
		IsShow:    *req.IsShow,
		CreatedAt: time.Now(),
	}

	if err := s.DB.CreateBanner(banner); err != nil {
		return nil, fmt.Errorf("failed to create banner: %w", err)
	}
	return &banner, nil
}

func (s *BannerService) GetBanner(id string) (*models.Banner, error) {
	banner, err := s.DB.GetBannerByID(id)
	if errors.Is(err, banner_db.ErrNotFound) {
		return nil, ErrBannerNotFound
	}
	if err != nil {
		return nil, err
	}
	return banner, nil
}

func (s *BannerService) UpdateBanner(id string, req models.BannerRequest) (*models.Banner, error) {
	if ferr := validation.Struct(req); ferr != nil {
		return nil, ferr
	}

	banner, err := s.GetBanner(id)
	if err != nil {
		return nil, err
	}

	banner.Title = req.Title
	banner.Image = req.Image
	banner.IsShow = *req.IsShow
	banner.UpdatedAt = time.Now()

	if err := s.DB.UpdateBanner(*banner); err != nil {
		return nil, fmt.Errorf("failed to update banner: %w", err)
	}
	return banner, nil
}

func (s *BannerService) DeleteBanner(id string) (*models.Banner, error) {
	banner, err := s.GetBanner(id)
	if err != nil {
		return nil, err
	}

	if err := s.DB.DeleteBanner(id); err != nil {
		return nil, fmt.Errorf("failed to delete banner: %w", err)
	}
	return banner, nil
}

func (s *BannerService) ListBanners(limit, page int, search string, showOnly bool) ([]models.Banner, int, error) {
	return s.DB.ListBanners(limit, page, search, showOnly)
}
