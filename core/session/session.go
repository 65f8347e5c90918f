// Package session owns the logged-in user and the theme preference of a client.
package session

import (
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/edumanage/core/user"
)

// Themes
const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

var (
	ErrNoSession    = errors.New("no user is logged in")
	ErrInvalidTheme = errors.New(`theme must be "dark" or "light"`)
)

type Theme string

func (t Theme) IsValid() bool { return t == ThemeDark || t == ThemeLight }

func ParseTheme(s string) (Theme, error) {
	t := Theme(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", errors.Wrapf(ErrInvalidTheme, "%q", s)
	}
	return t, nil
}

// Store persists the session between runs. Load methods report false when nothing is stored.
type Store interface {
	SaveUser(usr user.User) error
	LoadUser() (user.User, bool, error)
	ClearUser() error
	SaveTheme(t Theme) error
	LoadTheme() (Theme, bool, error)
}

// State is read from the Store once, and written back on every change.
type State struct {
	mu      sync.RWMutex
	store   Store
	current *user.User
	theme   Theme
}

// Load restores the stored session. Without a stored theme, fallback is used.
func Load(store Store, fallback Theme) (*State, error) {
	s := &State{store: store, theme: fallback}

	usr, ok, err := store.LoadUser()
	if err != nil {
		return nil, errors.Wrap(err, "loading current user")
	}
	if ok {
		s.current = &usr
	}

	theme, ok, err := store.LoadTheme()
	if err != nil {
		return nil, errors.Wrap(err, "loading theme")
	}
	if ok && theme.IsValid() {
		s.theme = theme
	}
	return s, nil
}

func (s *State) CurrentUser() (user.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return user.User{}, false
	}
	return *s.current, true
}

func (s *State) Login(usr user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.SaveUser(usr); err != nil {
		return errors.Wrap(err, "saving current user")
	}
	s.current = &usr
	return nil
}

func (s *State) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.ClearUser(); err != nil {
		return errors.Wrap(err, "clearing current user")
	}
	s.current = nil
	return nil
}

func (s *State) Theme() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

func (s *State) SetTheme(t Theme) error {
	if !t.IsValid() {
		return ErrInvalidTheme
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.SaveTheme(t); err != nil {
		return errors.Wrap(err, "saving theme")
	}
	s.theme = t
	return nil
}

func (s *State) ToggleTheme() (Theme, error) {
	next := ThemeDark
	if s.Theme() == ThemeDark {
		next = ThemeLight
	}
	return next, s.SetTheme(next)
}

// PreferredTheme picks the theme used when none is stored: the configured one if valid,
// else the terminal background hinted by COLORFGBG ("fg;bg"), else light.
func PreferredTheme(configured string, getenv func(string) string) Theme {
	if t, err := ParseTheme(configured); err == nil {
		return t
	}

	hint := getenv("COLORFGBG")
	if hint == "" {
		return ThemeLight
	}
	fields := strings.Split(hint, ";")
	bg, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return ThemeLight
	}
	// ANSI colors 7 and 9-15 are light backgrounds
	if bg == 7 || (bg >= 9 && bg <= 15) {
		return ThemeLight
	}
	return ThemeDark
}
