package users

import (
	"context"
	"regexp"
	"unicode/utf8"
)

// MinPasswordLength is the shortest accepted password, in characters.
const MinPasswordLength = 8

var namePattern = regexp.MustCompile(`^[A-Za-z\s]+$`)

// Registration is the input to RegisterUser.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate applies the registration rules in order and returns the first
// failure.
func (r Registration) Validate() error {
	if r.Name == "" || r.Email == "" || r.Password == "" {
		return &ValidationError{Reason: ReasonMissingField}
	}
	if !namePattern.MatchString(r.Name) {
		return &ValidationError{Reason: ReasonInvalidName}
	}
	if utf8.RuneCountInString(r.Password) < MinPasswordLength {
		return &ValidationError{Reason: ReasonPasswordTooShort}
	}
	return nil
}

// Service implements user lookup and registration on top of a Store.
// Each call is one independent read (and for registration, one write) of
// the store; nothing is cached between calls.
type Service struct {
	store Store
}

// NewService creates a Service backed by store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// GetUserByID returns the user with the given id or ErrNotFound.
func (s *Service) GetUserByID(ctx context.Context, id int) (User, error) {
	list, err := s.store.LoadAll(ctx)
	if err != nil {
		return User{}, err
	}
	for _, u := range list {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

// GetAllUsers returns every stored user in store order.
func (s *Service) GetAllUsers(ctx context.Context) ([]User, error) {
	return s.store.LoadAll(ctx)
}

// RegisterUser validates reg, rejects a duplicate email and appends a new
// user whose id is one past the last stored user's id.
//
// There is no lock around the load/append/save sequence, so concurrent
// registrations can overwrite each other.
func (s *Service) RegisterUser(ctx context.Context, reg Registration) (User, error) {
	if err := reg.Validate(); err != nil {
		return User{}, err
	}

	list, err := s.store.LoadAll(ctx)
	if err != nil {
		return User{}, err
	}
	for _, u := range list {
		if u.Email == reg.Email {
			return User{}, ErrConflict
		}
	}

	created := User{
		ID:       nextID(list),
		Name:     reg.Name,
		Email:    reg.Email,
		Password: reg.Password,
	}
	list = append(list, created)

	if err := s.store.SaveAll(ctx, list); err != nil {
		return User{}, err
	}
	return created, nil
}

// nextID assumes the last element carries the highest id, which holds as
// long as users are only ever appended.
func nextID(list []User) int {
	if len(list) == 0 {
		return 1
	}
	return list[len(list)-1].ID + 1
}
