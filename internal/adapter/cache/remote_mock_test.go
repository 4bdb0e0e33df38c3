package cache

import (
	"context"
	"sync"

	"github.com/heartmarshall/myenglish-cards/internal/domain"
	"github.com/heartmarshall/myenglish-cards/internal/listview/query"
)

var _ remote = &remoteMock{}

type remoteMock struct {
	FetchPageFunc        func(ctx context.Context, d query.Descriptor) (*domain.EntityPage, error)
	FetchCurrentUserFunc func(ctx context.Context) (*domain.User, error)
	FetchDeckFunc        func(ctx context.Context, deckID string) (*domain.Deck, error)
	CreateCardFunc       func(ctx context.Context, deckID string, form domain.CardForm) error
	UpdateCardFunc       func(ctx context.Context, cardID string, form domain.CardForm) error
	DeleteCardFunc       func(ctx context.Context, cardID string) error
	UpdateGradeFunc      func(ctx context.Context, deckID string, cardID string, grade domain.Grade) error

	calls struct {
		FetchPage []struct {
			Ctx context.Context
			D   query.Descriptor
		}
		FetchCurrentUser []struct{ Ctx context.Context }
		FetchDeck []struct {
			Ctx    context.Context
			DeckID string
		}
		CreateCard []struct {
			Ctx    context.Context
			DeckID string
			Form   domain.CardForm
		}
		UpdateCard []struct {
			Ctx    context.Context
			CardID string
			Form   domain.CardForm
		}
		DeleteCard []struct {
			Ctx    context.Context
			CardID string
		}
		UpdateGrade []struct {
			Ctx    context.Context
			DeckID string
			CardID string
			Grade  domain.Grade
		}
	}
	lockFetchPage        sync.RWMutex
	lockFetchCurrentUser sync.RWMutex
	lockFetchDeck        sync.RWMutex
	lockCreateCard       sync.RWMutex
	lockUpdateCard       sync.RWMutex
	lockDeleteCard       sync.RWMutex
	lockUpdateGrade      sync.RWMutex
}

func (mock *remoteMock) FetchPage(ctx context.Context, d query.Descriptor) (*domain.EntityPage, error) {
	if mock.FetchPageFunc == nil {
		panic("remoteMock.FetchPageFunc: method is nil but remote.FetchPage was just called")
	}
	callInfo := struct {
		Ctx context.Context
		D   query.Descriptor
	}{Ctx: ctx, D: d}
	mock.lockFetchPage.Lock()
	mock.calls.FetchPage = append(mock.calls.FetchPage, callInfo)
	mock.lockFetchPage.Unlock()
	return mock.FetchPageFunc(ctx, d)
}

func (mock *remoteMock) FetchPageCalls() []struct {
	Ctx context.Context
	D   query.Descriptor
} {
	mock.lockFetchPage.RLock()
	calls := mock.calls.FetchPage
	mock.lockFetchPage.RUnlock()
	return calls
}

func (mock *remoteMock) FetchCurrentUser(ctx context.Context) (*domain.User, error) {
	if mock.FetchCurrentUserFunc == nil {
		panic("remoteMock.FetchCurrentUserFunc: method is nil but remote.FetchCurrentUser was just called")
	}
	callInfo := struct{ Ctx context.Context }{Ctx: ctx}
	mock.lockFetchCurrentUser.Lock()
	mock.calls.FetchCurrentUser = append(mock.calls.FetchCurrentUser, callInfo)
	mock.lockFetchCurrentUser.Unlock()
	return mock.FetchCurrentUserFunc(ctx)
}

func (mock *remoteMock) FetchCurrentUserCalls() []struct{ Ctx context.Context } {
	mock.lockFetchCurrentUser.RLock()
	calls := mock.calls.FetchCurrentUser
	mock.lockFetchCurrentUser.RUnlock()
	return calls
}

func (mock *remoteMock) FetchDeck(ctx context.Context, deckID string) (*domain.Deck, error) {
	if mock.FetchDeckFunc == nil {
		panic("remoteMock.FetchDeckFunc: method is nil but remote.FetchDeck was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		DeckID string
	}{Ctx: ctx, DeckID: deckID}
	mock.lockFetchDeck.Lock()
	mock.calls.FetchDeck = append(mock.calls.FetchDeck, callInfo)
	mock.lockFetchDeck.Unlock()
	return mock.FetchDeckFunc(ctx, deckID)
}

func (mock *remoteMock) FetchDeckCalls() []struct {
	Ctx    context.Context
	DeckID string
} {
	mock.lockFetchDeck.RLock()
	calls := mock.calls.FetchDeck
	mock.lockFetchDeck.RUnlock()
	return calls
}

func (mock *remoteMock) CreateCard(ctx context.Context, deckID string, form domain.CardForm) error {
	if mock.CreateCardFunc == nil {
		panic("remoteMock.CreateCardFunc: method is nil but remote.CreateCard was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		DeckID string
		Form   domain.CardForm
	}{Ctx: ctx, DeckID: deckID, Form: form}
	mock.lockCreateCard.Lock()
	mock.calls.CreateCard = append(mock.calls.CreateCard, callInfo)
	mock.lockCreateCard.Unlock()
	return mock.CreateCardFunc(ctx, deckID, form)
}

func (mock *remoteMock) CreateCardCalls() []struct {
	Ctx    context.Context
	DeckID string
	Form   domain.CardForm
} {
	mock.lockCreateCard.RLock()
	calls := mock.calls.CreateCard
	mock.lockCreateCard.RUnlock()
	return calls
}

func (mock *remoteMock) UpdateCard(ctx context.Context, cardID string, form domain.CardForm) error {
	if mock.UpdateCardFunc == nil {
		panic("remoteMock.UpdateCardFunc: method is nil but remote.UpdateCard was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		CardID string
		Form   domain.CardForm
	}{Ctx: ctx, CardID: cardID, Form: form}
	mock.lockUpdateCard.Lock()
	mock.calls.UpdateCard = append(mock.calls.UpdateCard, callInfo)
	mock.lockUpdateCard.Unlock()
	return mock.UpdateCardFunc(ctx, cardID, form)
}

func (mock *remoteMock) UpdateCardCalls() []struct {
	Ctx    context.Context
	CardID string
	Form   domain.CardForm
} {
	mock.lockUpdateCard.RLock()
	calls := mock.calls.UpdateCard
	mock.lockUpdateCard.RUnlock()
	return calls
}

func (mock *remoteMock) DeleteCard(ctx context.Context, cardID string) error {
	if mock.DeleteCardFunc == nil {
		panic("remoteMock.DeleteCardFunc: method is nil but remote.DeleteCard was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		CardID string
	}{Ctx: ctx, CardID: cardID}
	mock.lockDeleteCard.Lock()
	mock.calls.DeleteCard = append(mock.calls.DeleteCard, callInfo)
	mock.lockDeleteCard.Unlock()
	return mock.DeleteCardFunc(ctx, cardID)
}

func (mock *remoteMock) DeleteCardCalls() []struct {
	Ctx    context.Context
	CardID string
} {
	mock.lockDeleteCard.RLock()
	calls := mock.calls.DeleteCard
	mock.lockDeleteCard.RUnlock()
	return calls
}

func (mock *remoteMock) UpdateGrade(ctx context.Context, deckID string, cardID string, grade domain.Grade) error {
	if mock.UpdateGradeFunc == nil {
		panic("remoteMock.UpdateGradeFunc: method is nil but remote.UpdateGrade was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		DeckID string
		CardID string
		Grade  domain.Grade
	}{Ctx: ctx, DeckID: deckID, CardID: cardID, Grade: grade}
	mock.lockUpdateGrade.Lock()
	mock.calls.UpdateGrade = append(mock.calls.UpdateGrade, callInfo)
	mock.lockUpdateGrade.Unlock()
	return mock.UpdateGradeFunc(ctx, deckID, cardID, grade)
}

func (mock *remoteMock) UpdateGradeCalls() []struct {
	Ctx    context.Context
	DeckID string
	CardID string
	Grade  domain.Grade
} {
	mock.lockUpdateGrade.RLock()
	calls := mock.calls.UpdateGrade
	mock.lockUpdateGrade.RUnlock()
	return calls
}
