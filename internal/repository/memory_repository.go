package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/invoicepro/server/internal/models"
)

// MemoryRepository is an in-memory Repository with the same semantics as the
// postgres implementation, including allocator atomicity and CAS status
// updates. It backs the API tests and is handy for local development without
// a database.
type MemoryRepository struct {
	mu sync.Mutex

	users    map[string]*models.User
	invoices []*models.Invoice
	clients  []*models.Client
	settings map[string]*models.BusinessSettings // keyed by user ID
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:    make(map[string]*models.User),
		settings: make(map[string]*models.BusinessSettings),
	}
}

// Reset drops all stored data. Used between tests.
func (r *MemoryRepository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = make(map[string]*models.User)
	r.invoices = nil
	r.clients = nil
	r.settings = make(map[string]*models.BusinessSettings)
}

// User operations
func (r *MemoryRepository) CreateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	u := *user
	r.users[user.ID] = &u
	return nil
}

func (r *MemoryRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

// Invoice operations
func (r *MemoryRepository) CreateInvoice(ctx context.Context, inv *models.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	copied := *inv
	copied.Items = append(models.LineItems(nil), inv.Items...)
	r.invoices = append(r.invoices, &copied)
	return nil
}

func (r *MemoryRepository) GetInvoice(ctx context.Context, userID, invoiceID string) (*models.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if inv := r.findInvoice(userID, invoiceID); inv != nil {
		copied := *inv
		copied.Items = append(models.LineItems(nil), inv.Items...)
		return &copied, nil
	}
	return nil, nil
}

func (r *MemoryRepository) findInvoice(userID, invoiceID string) *models.Invoice {
	for _, inv := range r.invoices {
		if inv.ID == invoiceID && inv.UserID == userID {
			return inv
		}
	}
	return nil
}

func (r *MemoryRepository) ListInvoices(ctx context.Context, userID, startDate, endDate string) ([]models.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Invoice
	for _, inv := range r.invoices {
		if inv.UserID != userID {
			continue
		}
		if startDate != "" && endDate != "" {
			if inv.IssueDate < startDate || inv.IssueDate > endDate {
				continue
			}
		}
		copied := *inv
		copied.Items = append(models.LineItems(nil), inv.Items...)
		out = append(out, copied)
	}
	return out, nil
}

func (r *MemoryRepository) UpdateInvoice(ctx context.Context, inv *models.Invoice) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := r.findInvoice(inv.UserID, inv.ID)
	if stored == nil {
		return false, nil
	}

	inv.UpdatedAt = time.Now().UTC()
	inv.CreatedAt = stored.CreatedAt
	inv.InvoiceNumber = stored.InvoiceNumber

	copied := *inv
	copied.Items = append(models.LineItems(nil), inv.Items...)
	*stored = copied
	return true, nil
}

func (r *MemoryRepository) DeleteInvoice(ctx context.Context, userID, invoiceID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, inv := range r.invoices {
		if inv.ID == invoiceID && inv.UserID == userID {
			r.invoices = append(r.invoices[:i], r.invoices[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepository) CountInvoices(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, inv := range r.invoices {
		if inv.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *MemoryRepository) UpdateInvoiceStatus(ctx context.Context, userID, invoiceID, fromStatus, toStatus string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv := r.findInvoice(userID, invoiceID)
	if inv == nil || inv.Status != fromStatus {
		return false, nil
	}
	inv.Status = toStatus
	return true, nil
}

// Client operations
func (r *MemoryRepository) CreateClient(ctx context.Context, client *models.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if client.ID == "" {
		client.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	client.CreatedAt = now
	client.UpdatedAt = now

	copied := *client
	r.clients = append(r.clients, &copied)
	return nil
}

func (r *MemoryRepository) GetClient(ctx context.Context, userID, clientID string) (*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.clients {
		if c.ID == clientID && c.UserID == userID {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) ListClients(ctx context.Context, userID string) ([]models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Client
	for _, c := range r.clients {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *MemoryRepository) UpdateClient(ctx context.Context, client *models.Client) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.clients {
		if c.ID == client.ID && c.UserID == client.UserID {
			client.UpdatedAt = time.Now().UTC()
			client.CreatedAt = c.CreatedAt
			*c = *client
			return true, nil
		}
	}
	return false, nil
}

// Business settings operations
func (r *MemoryRepository) GetSettings(ctx context.Context, userID string) (*models.BusinessSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.settings[userID]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, nil
}

func (r *MemoryRepository) UpsertSettings(ctx context.Context, settings *models.BusinessSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	settings.UpdatedAt = now

	if existing, ok := r.settings[settings.UserID]; ok {
		settings.ID = existing.ID
		settings.CreatedAt = existing.CreatedAt
	} else {
		if settings.ID == "" {
			settings.ID = uuid.New().String()
		}
		settings.CreatedAt = now
	}

	copied := *settings
	r.settings[settings.UserID] = &copied
	return nil
}

func (r *MemoryRepository) AllocateInvoiceSequence(ctx context.Context, userID string) (int64, string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.settings[userID]
	if !ok || s.NextInvoiceNumber <= 0 {
		return 0, "", false, nil
	}

	seq := s.NextInvoiceNumber
	s.NextInvoiceNumber++
	s.UpdatedAt = time.Now().UTC()
	return seq, s.InvoicePrefix, true, nil
}
