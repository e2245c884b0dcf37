package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var (
	_ repository.DocumentRepository = (*documentView)(nil)
	_ repository.DocumentRepository = (*lockedDocuments)(nil)
)

// documentView opera sin lock; solo dentro de Run.
type documentView struct{ s *Store }

func (v *documentView) Create(_ context.Context, doc *entity.Document) error {
	if _, ok := v.s.documents[doc.ID]; ok {
		return domain.ErrDuplicate
	}
	v.s.documents[doc.ID] = copyDocument(doc)
	return nil
}

func (v *documentView) GetByID(_ context.Context, id string) (*entity.Document, error) {
	doc, ok := v.s.documents[id]
	if !ok {
		return nil, nil
	}
	return copyDocument(doc), nil
}

func (v *documentView) List(_ context.Context, filter repository.DocumentFilter) ([]*entity.Document, error) {
	var list []*entity.Document
	for _, d := range v.s.documents {
		if d.Type != filter.Type {
			continue
		}
		if filter.Status != "" && d.Status != filter.Status {
			continue
		}
		if filter.WarehouseID != "" && d.WarehouseID != filter.WarehouseID {
			continue
		}
		if filter.CounterpartyID != "" && d.CounterpartyID != filter.CounterpartyID {
			continue
		}
		if filter.From != nil && d.DocumentDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && d.DocumentDate.After(*filter.To) {
			continue
		}
		list = append(list, copyDocument(d))
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	if filter.Offset > 0 {
		if filter.Offset >= len(list) {
			return nil, nil
		}
		list = list[filter.Offset:]
	}
	if filter.Limit > 0 && len(list) > filter.Limit {
		list = list[:filter.Limit]
	}
	return list, nil
}

func (v *documentView) ReplaceDraft(_ context.Context, doc *entity.Document) (bool, error) {
	existing, ok := v.s.documents[doc.ID]
	if !ok || existing.Status != entity.StatusDraft {
		return false, nil
	}
	v.s.documents[doc.ID] = copyDocument(doc)
	return true, nil
}

func (v *documentView) DeleteDraft(_ context.Context, id string) (bool, error) {
	existing, ok := v.s.documents[id]
	if !ok || existing.Status != entity.StatusDraft {
		return false, nil
	}
	delete(v.s.documents, id)
	return true, nil
}

func (v *documentView) SetStatus(_ context.Context, id string, from, to entity.DocumentStatus, change repository.StatusChange) (bool, error) {
	doc, ok := v.s.documents[id]
	if !ok || doc.Status != from {
		return false, nil
	}
	doc.Status = to
	doc.UpdatedAt = change.At
	switch to {
	case entity.StatusConfirmed:
		doc.ConfirmedBy = change.ActorID
		at := change.At
		doc.ConfirmedAt = &at
	case entity.StatusCancelled:
		doc.CancelledBy = change.ActorID
		at := change.At
		doc.CancelledAt = &at
		doc.CancellationReason = change.Reason
	}
	return true, nil
}

// lockedDocuments versión con lock propio, equivalente a un repo sobre el pool.
type lockedDocuments struct{ s *Store }

func (r *lockedDocuments) Create(ctx context.Context, doc *entity.Document) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&documentView{r.s}).Create(ctx, doc)
}

func (r *lockedDocuments) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&documentView{r.s}).GetByID(ctx, id)
}

func (r *lockedDocuments) List(ctx context.Context, filter repository.DocumentFilter) ([]*entity.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&documentView{r.s}).List(ctx, filter)
}

func (r *lockedDocuments) ReplaceDraft(ctx context.Context, doc *entity.Document) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&documentView{r.s}).ReplaceDraft(ctx, doc)
}

func (r *lockedDocuments) DeleteDraft(ctx context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&documentView{r.s}).DeleteDraft(ctx, id)
}

func (r *lockedDocuments) SetStatus(ctx context.Context, id string, from, to entity.DocumentStatus, change repository.StatusChange) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&documentView{r.s}).SetStatus(ctx, id, from, to, change)
}
