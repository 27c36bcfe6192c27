package service

import (
	"context"
	"errors"
	"sync"

	"github.com/vaultpass/passforge-go/internal/advisor"
	"github.com/vaultpass/passforge-go/internal/model"
	"github.com/vaultpass/passforge-go/internal/repository"
)

type fakeHistory struct {
	mu     sync.Mutex
	events []model.HistoryEvent
	err    error
}

func (f *fakeHistory) Record(ctx context.Context, ev *model.HistoryEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, *ev)
	return nil
}

func (f *fakeHistory) ListByAccount(ctx context.Context, accountID int64, limit int) ([]model.HistoryEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []model.HistoryEvent
	for i := len(f.events) - 1; i >= 0 && len(out) < limit; i-- {
		if f.events[i].AccountID == accountID {
			out = append(out, f.events[i])
		}
	}
	return out, nil
}

type fakeAccounts struct {
	byID map[int64]*model.Account
	next int64
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{byID: make(map[int64]*model.Account)}
}

func (f *fakeAccounts) Create(ctx context.Context, acct *model.Account) error {
	for _, a := range f.byID {
		if a.Email == acct.Email {
			return repository.ErrDuplicateEmail
		}
	}
	f.next++
	acct.ID = f.next
	cp := *acct
	f.byID[acct.ID] = &cp
	return nil
}

func (f *fakeAccounts) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	for _, a := range f.byID {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrAccountNotFound
}

func (f *fakeAccounts) GetByID(ctx context.Context, id int64) (*model.Account, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

type fakeAdvisor struct {
	resp advisor.Suggestion
	err  error
}

func (f fakeAdvisor) SuggestSeparators(ctx context.Context, password string) (advisor.Suggestion, error) {
	return f.resp, f.err
}

var errStore = errors.New("store unavailable")
