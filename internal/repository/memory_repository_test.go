package repository

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/invoicepro/server/internal/models"
	"github.com/stretchr/testify/assert"
)

func seedSettings(t *testing.T, repo *MemoryRepository, userID string, next int64) {
	err := repo.UpsertSettings(context.Background(), &models.BusinessSettings{
		UserID:            userID,
		InvoicePrefix:     "INV-",
		NextInvoiceNumber: next,
	})
	assert.NoError(t, err)
}

func TestAllocateInvoiceSequence(t *testing.T) {
	repo := NewMemoryRepository()
	seedSettings(t, repo, "u1", 5)

	seq, prefix, ok, err := repo.AllocateInvoiceSequence(context.Background(), "u1")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(5), seq)
	assert.Equal(t, "INV-", prefix)

	seq, _, ok, err = repo.AllocateInvoiceSequence(context.Background(), "u1")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(6), seq)

	// No settings row: allocation reports not-ok, nothing is created
	_, _, ok, err = repo.AllocateInvoiceSequence(context.Background(), "u2")
	assert.NoError(t, err)
	assert.False(t, ok)
}

// Concurrent allocations must hand out a gapless, duplicate-free range.
func TestAllocateInvoiceSequenceConcurrent(t *testing.T) {
	repo := NewMemoryRepository()
	seedSettings(t, repo, "u1", 1)

	const n = 50
	results := make([]int64, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			seq, _, ok, err := repo.AllocateInvoiceSequence(context.Background(), "u1")
			assert.NoError(t, err)
			assert.True(t, ok)
			results[i] = seq
		}(i)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i] < results[j] })
	for i, seq := range results {
		assert.Equal(t, int64(i+1), seq)
	}

	settings, err := repo.GetSettings(context.Background(), "u1")
	assert.NoError(t, err)
	assert.Equal(t, int64(n+1), settings.NextInvoiceNumber)
}

func TestUpdateInvoiceStatusCAS(t *testing.T) {
	repo := NewMemoryRepository()

	inv := &models.Invoice{
		UserID: "u1",
		Status: models.StatusPending,
	}
	assert.NoError(t, repo.CreateInvoice(context.Background(), inv))

	// Swap succeeds when the stored status matches
	ok, err := repo.UpdateInvoiceStatus(context.Background(), "u1", inv.ID, models.StatusPending, models.StatusOverdue)
	assert.NoError(t, err)
	assert.True(t, ok)

	// A second swap from the old status loses
	ok, err = repo.UpdateInvoiceStatus(context.Background(), "u1", inv.ID, models.StatusPending, models.StatusUnpaid)
	assert.NoError(t, err)
	assert.False(t, ok)

	stored, err := repo.GetInvoice(context.Background(), "u1", inv.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusOverdue, stored.Status)

	// Wrong owner never matches
	ok, err = repo.UpdateInvoiceStatus(context.Background(), "u2", inv.ID, models.StatusOverdue, models.StatusPaid)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateInvoicePreservesNumberAndCreatedAt(t *testing.T) {
	repo := NewMemoryRepository()

	inv := &models.Invoice{
		UserID:        "u1",
		InvoiceNumber: "INV-1",
		ClientName:    "Acme",
		Status:        models.StatusPending,
	}
	assert.NoError(t, repo.CreateInvoice(context.Background(), inv))
	created := inv.CreatedAt

	edit := *inv
	edit.InvoiceNumber = "HACKED-9"
	edit.ClientName = "Acme Renamed"

	ok, err := repo.UpdateInvoice(context.Background(), &edit)
	assert.NoError(t, err)
	assert.True(t, ok)

	stored, err := repo.GetInvoice(context.Background(), "u1", inv.ID)
	assert.NoError(t, err)
	assert.Equal(t, "INV-1", stored.InvoiceNumber)
	assert.Equal(t, "Acme Renamed", stored.ClientName)
	assert.Equal(t, created, stored.CreatedAt)
}

func TestSettingsUpsertKeepsIdentity(t *testing.T) {
	repo := NewMemoryRepository()
	seedSettings(t, repo, "u1", 1)

	first, err := repo.GetSettings(context.Background(), "u1")
	assert.NoError(t, err)

	err = repo.UpsertSettings(context.Background(), &models.BusinessSettings{
		UserID:            "u1",
		InvoicePrefix:     "NEW-",
		NextInvoiceNumber: 10,
	})
	assert.NoError(t, err)

	second, err := repo.GetSettings(context.Background(), "u1")
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "NEW-", second.InvoicePrefix)
}
