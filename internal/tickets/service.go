package tickets

import (
	"errors"
	"fmt"
	"time"

	"ms-eventhub/internal/models"
	ticket_db "ms-eventhub/internal/tickets/db"
	"ms-eventhub/internal/validation"

	"github.com/google/uuid"
)

var ErrTicketNotFound = errors.New("ticket not found")

type TicketDBLayer interface {
	CreateTicket(ticket models.Ticket) error
	GetTicketByID(id string) (*models.Ticket, error)
	UpdateTicket(ticket models.Ticket) error
	DeleteTicket(id string) error
	ListTickets(limit, page int, search string) ([]models.Ticket, int, error)
	GetTicketsByEvent(eventID string) ([]models.Ticket, error)
}

type TicketService struct {
	DB TicketDBLayer
}

func NewTicketService(db TicketDBLayer) *TicketService {
	return &TicketService{DB: db}
}

func (s *TicketService) CreateTicket(req models.TicketRequest) (*models.Ticket, error) {
	if ferr := validation.Struct(req); ferr != nil {
		return nil, ferr
	}

	ticket := models.Ticket{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		EventID:     req.Events,
		CreatedAt:   time.Now(),
	}

	if err := s.DB.CreateTicket(ticket); err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}
	return &ticket, nil
}

func (s *TicketService) GetTicket(id string) (*models.Ticket, error) {
	ticket, err := s.DB.GetTicketByID(id)
	if errors.Is(err, ticket_db.ErrNotFound) {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *TicketService) UpdateTicket(id string, req models.TicketRequest) (*models.Ticket, error) {
	if ferr := validation.Struct(req); ferr != nil {
		return nil, ferr
	}

	ticket, err := s.GetTicket(id)
	if err != nil {
		return nil, err
	}

	ticket.Name = req.Name
	ticket.Description = req.Description
	ticket.Price = req.Price
	ticket.Quantity = req.Quantity
	ticket.EventID = req.Events
	ticket.UpdatedAt = time.Now()

	if err := s.DB.UpdateTicket(*ticket); err != nil {
		return nil, fmt.Errorf("failed to update ticket: %w", err)
	}
	return ticket, nil
}

func (s *TicketService) DeleteTicket(id string) (*models.Ticket, error) {
	ticket, err := s.GetTicket(id)
	if err != nil {
		return nil, err
	}

	if err := s.DB.DeleteTicket(id); err != nil {
		return nil, fmt.Errorf("failed to delete ticket: %w", err)
	}
	return ticket, nil
}

func (s *TicketService) ListTickets(limit, page int, search string) ([]models.Ticket, int, error) {
	return s.DB.ListTickets(limit, page, search)
}

func (s *TicketService) GetTicketsByEvent(eventID string) ([]models.Ticket, error) {
	return s.DB.GetTicketsByEvent(eventID)
}
