package core

import (
	"time"

	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	Books          int        `json:"books" yaml:"books"`
	Students       int        `json:"students" yaml:"students"`
	Loans          int        `json:"loans" yaml:"loans"`
	ActiveLoans    int        `json:"active_loans" yaml:"active_loans"`
	Dirty          bool       `json:"dirty" yaml:"dirty"`
	LastSave       *time.Time `json:"last_save,omitempty" yaml:"last_save,omitempty"`
	LastSaveError  string     `json:"last_save_error,omitempty" yaml:"last_save_error,omitempty"`
	Policy         Policy     `json:"policy" yaml:"policy"`
	RepositoryType string     `json:"repository_type" yaml:"repository_type"`
	Repository     any        `json:"repository,omitempty" yaml:"repository,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	repoType := "none"
	var repoState any
	if s.repo != nil {
		repoType = "repository"
		if comp, ok := s.repo.(introspection.Component); ok {
			repoType = comp.ComponentType()
		}
		if intro, ok := s.repo.(introspection.Introspectable); ok {
			repoState = intro.State()
		}
	}

	state := ServiceState{
		Books:          len(s.catalog.books),
		Students:       len(s.catalog.students),
		Loans:          len(s.ledger.loans),
		ActiveLoans:    len(s.ledger.Active()),
		Dirty:          s.dirty,
		Policy:         s.policy,
		RepositoryType: repoType,
		Repository:     repoState,
	}
	if !s.lastSave.IsZero() {
		t := s.lastSave
		state.LastSave = &t
	}
	if s.lastSaveErr != nil {
		state.LastSaveError = s.lastSaveErr.Error()
	}
	return state
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
