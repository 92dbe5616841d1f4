package service

import (
	"context"
	"strings"
	"time"

	"aroma-inventory/internal/apperror"
	"aroma-inventory/internal/logger"
	"aroma-inventory/internal/model"
	"aroma-inventory/internal/repository"
	"aroma-inventory/internal/valueobject"
	"aroma-inventory/internal/ws"
)

type ContactRequest struct {
	Address string `json:"address" validate:"max=300"`
	Email   string `json:"email" validate:"omitempty,max=255"`
	Phone   string `json:"phone" validate:"max=30"`
	Notes   string `json:"notes" validate:"max=2000"`
}

type IndividualClientRequest struct {
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name" validate:"required,max=50"`
	ContactRequest
}

type BusinessClientRequest struct {
	NIPT               string `json:"nipt" validate:"required,nipt"`
	BusinessName       string `json:"business_name" validate:"required,max=200"`
	OwnerName          string `json:"owner_name" validate:"max=100"`
	OwnerPhone         string `json:"owner_phone" validate:"max=30"`
	ContactPersonName  string `json:"contact_person_name" validate:"max=100"`
	ContactPersonPhone string `json:"contact_person_phone" validate:"max=30"`
	ContactRequest
}

type ClientQuery struct {
	Type     string
	Active   *bool
	Search   string
	Page     int
	PageSize int
}

type ClientResponse struct {
	ID          string `json:"id"`
	ClientType  string `json:"client_type"`
	DisplayName string `json:"display_name"`
	Address     string `json:"address"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Notes       string `json:"notes"`
	IsActive    bool   `json:"is_active"`

	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`

	NIPT               *string `json:"nipt,omitempty"`
	BusinessName       *string `json:"business_name,omitempty"`
	OwnerName          *string `json:"owner_name,omitempty"`
	OwnerPhone         *string `json:"owner_phone,omitempty"`
	ContactPersonName  *string `json:"contact_person_name,omitempty"`
	ContactPersonPhone *string `json:"contact_person_phone,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy string    `json:"created_by"`
	UpdatedBy string    `json:"updated_by"`
}

type ClientListResponse struct {
	Items    []ClientResponse `json:"items"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

type ClientService interface {
	CreateIndividual(ctx context.Context, actor Actor, req IndividualClientRequest) (*ClientResponse, error)
	CreateBusiness(ctx context.Context, actor Actor, req BusinessClientRequest) (*ClientResponse, error)
	UpdateIndividual(ctx context.Context, actor Actor, id string, req IndividualClientRequest) (*ClientResponse, error)
	UpdateBusiness(ctx context.Context, actor Actor, id string, req BusinessClientRequest) (*ClientResponse, error)
	GetClient(ctx context.Context, id string) (*ClientResponse, error)
	ListClients(ctx context.Context, query ClientQuery) (*ClientListResponse, error)
	DeactivateClient(ctx context.Context, actor Actor, id string) (*ClientResponse, error)
}

type clientService struct {
	clientRepo repository.ClientRepository
	events     ws.Publisher
	log        *logger.Logger
}

func NewClientService(clientRepo repository.ClientRepository, events ws.Publisher, log *logger.Logger) ClientService {
	return &clientService{clientRepo: clientRepo, events: events, log: log}
}

func (s *clientService) CreateIndividual(ctx context.Context, actor Actor, req IndividualClientRequest) (*ClientResponse, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	name, err := valueobject.NewPersonName(req.FirstName, req.LastName)
	if err != nil {
		return nil, err
	}
	contact, err := req.ContactRequest.toContactInfo()
	if err != nil {
		return nil, err
	}

	client, err := model.NewIndividualClient(name, contact, actor.ID())
	if err != nil {
		return nil, err
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}

	s.log.Info("client created", "client_id", client.ID, "type", client.ClientType, "by", actor.Email)
	resp := toClientResponse(client)
	s.publish(actor, "client_created", resp)
	return &resp, nil
}

func (s *clientService) CreateBusiness(ctx context.Context, actor Actor, req BusinessClientRequest) (*ClientResponse, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	info, err := req.toBusinessInfo()
	if err != nil {
		return nil, err
	}
	contact, err := req.ContactRequest.toContactInfo()
	if err != nil {
		return nil, err
	}
	if err := s.ensureNIPTAvailable(ctx, info.NIPT, ""); err != nil {
		return nil, err
	}

	client, err := model.NewBusinessClient(info, contact, actor.ID())
	if err != nil {
		return nil, err
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}

	s.log.Info("client created", "client_id", client.ID, "type", client.ClientType, "by", actor.Email)
	resp := toClientResponse(client)
	s.publish(actor, "client_created", resp)
	return &resp, nil
}

func (s *clientService) UpdateIndividual(ctx context.Context, actor Actor, id string, req IndividualClientRequest) (*ClientResponse, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	name, err := valueobject.NewPersonName(req.FirstName, req.LastName)
	if err != nil {
		return nil, err
	}
	contact, err := req.ContactRequest.toContactInfo()
	if err != nil {
		return nil, err
	}

	if err := client.UpdatePersonalInfo(name, actor.ID()); err != nil {
		return nil, err
	}
	if err := client.UpdateContactInfo(contact, actor.ID()); err != nil {
		return nil, err
	}
	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	s.log.Info("client updated", "client_id", client.ID, "by", actor.Email)
	resp := toClientResponse(client)
	s.publish(actor, "client_updated", resp)
	return &resp, nil
}

func (s *clientService) UpdateBusiness(ctx context.Context, actor Actor, id string, req BusinessClientRequest) (*ClientResponse, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client.ClientType != model.ClientTypeBusiness {
		return nil, apperror.Invalid("client '%s' is not a business client", client.ID)
	}
	info, err := req.toBusinessInfo()
	if err != nil {
		return nil, err
	}
	contact, err := req.ContactRequest.toContactInfo()
	if err != nil {
		return nil, err
	}
	if client.IsActive {
		if err := s.ensureNIPTAvailable(ctx, info.NIPT, client.ID); err != nil {
			return nil, err
		}
	}

	if err := client.UpdateBusinessInfo(info, actor.ID()); err != nil {
		return nil, err
	}
	if err := client.UpdateContactInfo(contact, actor.ID()); err != nil {
		return nil, err
	}
	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	s.log.Info("client updated", "client_id", client.ID, "by", actor.Email)
	resp := toClientResponse(client)
	s.publish(actor, "client_updated", resp)
	return &resp, nil
}

func (s *clientService) GetClient(ctx context.Context, id string) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toClientResponse(client)
	return &resp, nil
}

func (s *clientService) ListClients(ctx context.Context, query ClientQuery) (*ClientListResponse, error) {
	filter := repository.ClientFilter{
		Active:   query.Active,
		Search:   query.Search,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.Type != "" {
		ct, err := model.ParseClientType(query.Type)
		if err != nil {
			return nil, err
		}
		filter.Type = &ct
	}

	clients, total, err := s.clientRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &ClientListResponse{
		Items:    make([]ClientResponse, 0, len(clients)),
		Total:    total,
		Page:     max(query.Page, 1),
		PageSize: query.PageSize,
	}
	if resp.PageSize <= 0 {
		resp.PageSize = 20
	}
	for i := range clients {
		resp.Items = append(resp.Items, toClientResponse(&clients[i]))
	}
	return resp, nil
}

func (s *clientService) DeactivateClient(ctx context.Context, actor Actor, id string) (*ClientResponse, error) {
	if err := actor.validate(); err != nil {
		return nil, err
	}
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client.IsActive {
		client.Deactivate(actor.ID())
		if err := s.clientRepo.Save(ctx, client); err != nil {
			return nil, err
		}
		s.log.Info("client deactivated", "client_id", client.ID, "by", actor.Email)
		s.publish(actor, "client_deactivated", toClientResponse(client))
	}
	resp := toClientResponse(client)
	return &resp, nil
}

// ensureNIPTAvailable rejects a NIPT already held by another active business
func (s *clientService) ensureNIPTAvailable(ctx context.Context, nipt valueobject.NIPT, excludeID string) error {
	exists, err := s.clientRepo.ExistsActiveNIPT(ctx, nipt.String(), excludeID)
	if err != nil {
		return err
	}
	if exists {
		return apperror.Duplicate("client", "NIPT", nipt.String())
	}
	return nil
}

func (s *clientService) publish(actor Actor, action string, data ClientResponse) {
	if s.events == nil {
		return
	}
	s.events.Publish(ws.Event{
		Type:   "client_update",
		Action: action,
		Data:   data,
		User:   actor.eventUser(),
	})
}

func (r ContactRequest) toContactInfo() (model.ContactInfo, error) {
	contact := model.ContactInfo{Address: r.Address, Phone: r.Phone, Notes: r.Notes}
	if strings.TrimSpace(r.Email) != "" {
		email, err := valueobject.NewEmail(r.Email)
		if err != nil {
			return model.ContactInfo{}, err
		}
		contact.Email = &email
	}
	return contact, nil
}

func (r BusinessClientRequest) toBusinessInfo() (model.BusinessInfo, error) {
	nipt, err := valueobject.NewNIPT(r.NIPT)
	if err != nil {
		return model.BusinessInfo{}, err
	}
	return model.BusinessInfo{
		NIPT:               nipt,
		BusinessName:       r.BusinessName,
		OwnerName:          r.OwnerName,
		OwnerPhone:         r.OwnerPhone,
		ContactPersonName:  r.ContactPersonName,
		ContactPersonPhone: r.ContactPersonPhone,
	}, nil
}

func toClientResponse(c *model.Client) ClientResponse {
	return ClientResponse{
		ID:                 c.ID,
		ClientType:         string(c.ClientType),
		DisplayName:        c.DisplayName(),
		Address:            c.Address,
		Email:              c.Email,
		Phone:              c.Phone,
		Notes:              c.Notes,
		IsActive:           c.IsActive,
		FirstName:          c.FirstName,
		LastName:           c.LastName,
		NIPT:               c.NIPT,
		BusinessName:       c.BusinessName,
		OwnerName:          c.OwnerName,
		OwnerPhone:         c.OwnerPhone,
		ContactPersonName:  c.ContactPersonName,
		ContactPersonPhone: c.ContactPersonPhone,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
		CreatedBy:          c.CreatedBy,
		UpdatedBy:          c.UpdatedBy,
	}
}
