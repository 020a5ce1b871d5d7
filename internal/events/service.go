package events

import (
	"errors"
	"fmt"
	"time"

	event_db "ms-eventhub/internal/events/db"
	"ms-eventhub/internal/models"
	"ms-eventhub/internal/utils"
	"ms-eventhub/internal/validation"

	"github.com/google/uuid"
)

var ErrEventNotFound = errors.New("event not found")

type EventDBLayer interface {
	CreateEvent(event models.Event) error
	GetEventByID(id string) (*models.Event, error)
	GetEventBySlug(slug string) (*models.Event, error)
	UpdateEvent(event models.Event) error
	DeleteEvent(id string) error
	ListEvents(limit, page int, search string, featuredOnly, publishedOnly bool) ([]models.Event, int, error)
}

type EventService struct {
	DB EventDBLayer
}

func NewEventService(db EventDBLayer) *EventService {
	return &EventService{DB: db}
}

func buildEvent(id, createdBy string, req models.EventRequest) models.Event {
	slug := req.Slug
	if slug == "" {
		slug = utils.Slugify(req.Name)
	}

	event := models.Event{
		ID:          id,
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		Banner:      req.Banner,
		CategoryID:  req.Category,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		IsFeatured:  *req.IsFeatured,
		IsOnline:    *req.IsOnline,
		IsPublish:   req.IsPublish,
		Region:      req.Location.Region,
		Address:     req.Location.Address,
		CreatedBy:   createdBy,
	}
	if len(req.Location.Coordinates) == 2 {
		event.Longitude = req.Location.Coordinates[0]
		event.Latitude = req.Location.Coordinates[1]
	}
	return event
}

func (s *EventService) CreateEvent(createdBy string, req models.EventRequest) (*models.Event, error) {
	if ferr := validation.Struct(req); ferr != nil {
		return nil, ferr
	}

	event := buildEvent(uuid.NewString(), createdBy, req)
	event.CreatedAt = time.Now()

	if err := s.DB.CreateEvent(event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return &event, nil
}

func (s *EventService) GetEvent(id string) (*models.Event, error) {
	event, err := s.DB.GetEventByID(id)
	if errors.Is(err, event_db.ErrNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) GetEventBySlug(slug string) (*models.Event, error) {
	event, err := s.DB.GetEventBySlug(slug)
	if errors.Is(err, event_db.ErrNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) UpdateEvent(id string, req models.EventRequest) (*models.Event, error) {
	if ferr := validation.Struct(req); ferr != nil {
		return nil, ferr
	}

	existing, err := s.GetEvent(id)
	if err != nil {
		return nil, err
	}

	event := buildEvent(id, existing.CreatedBy, req)
	event.CreatedAt = existing.CreatedAt
	event.UpdatedAt = time.Now()

	if err := s.DB.UpdateEvent(event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return &event, nil
}

func (s *EventService) DeleteEvent(id string) (*models.Event, error) {
	event, err := s.GetEvent(id)
	if err != nil {
		return nil, err
	}

	if err := s.DB.DeleteEvent(id); err != nil {
		return nil, fmt.Errorf("failed to delete event: %w", err)
	}
	return event, nil
}

func (s *EventService) ListEvents(limit, page int, search string, featuredOnly, publishedOnly bool) ([]models.Event, int, error) {
	return s.DB.ListEvents(limit, page, search, featuredOnly, publishedOnly)
}
