package inmemdb

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/edumanage/core/user"
)

const (
	maxSuggestions  = 3
	suggestionRatio = .6
)

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CreateUser(usr user.User, idPrefix string) (user.User, error) {
	usr.ID = user.ID(repo.db.ids.Next(idPrefix))
	repo.db.user.append(usr)
	return usr, nil
}

func (repo *userRepository) QueryAllUsers() ([]user.User, error) {
	return repo.db.user.all(), nil
}

func (repo *userRepository) GetUserByID(id user.ID) (user.User, error) {
	if usr, ok := repo.db.user.find(func(u user.User) bool { return u.ID == id }); ok {
		return usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(email string) (user.User, error) {
	if usr, ok := repo.db.user.find(func(u user.User) bool { return strings.EqualFold(u.Email, email) }); ok {
		return usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) FindUserByName(name string, role user.Role) (user.User, error) {
	if usr, ok := repo.db.user.find(func(u user.User) bool {
		return u.Role == role && strings.EqualFold(u.Name, name)
	}); ok {
		return usr, nil
	}

	var names []string
	for _, u := range repo.db.user.all() {
		if u.Role == role {
			names = append(names, u.Name)
		}
	}
	return user.User{}, &user.NameNotFoundError{Name: name, Suggestions: closeMatches(name, names)}
}

// closeMatches returns up to maxSuggestions candidates similar to name, best first.
func closeMatches(name string, candidates []string) []string {
	type match struct {
		name  string
		ratio float64
	}

	word := strings.Split(strings.ToLower(name), "")
	matcher := difflib.NewMatcher(nil, word)
	var matches []match
	for _, c := range candidates {
		matcher.SetSeq1(strings.Split(strings.ToLower(c), ""))
		if matcher.RealQuickRatio() >= suggestionRatio &&
			matcher.QuickRatio() >= suggestionRatio {
			if r := matcher.Ratio(); r >= suggestionRatio {
				matches = append(matches, match{name: c, ratio: r})
			}
		}
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].ratio > matches[j].ratio })
	if len(matches) > maxSuggestions {
		matches = matches[:maxSuggestions]
	}
	suggestions := make([]string, 0, len(matches))
	for _, m := range matches {
		suggestions = append(suggestions, m.name)
	}
	return suggestions
}

func (repo *userRepository) FilterUsers(filter user.QueryFilter) ([]user.User, error) {
	search := strings.ToLower(filter.Search)
	users := make([]user.User, 0)
	for _, u := range repo.db.user.all() {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(u.Name), search) &&
			!strings.Contains(strings.ToLower(u.Email), search) {
			continue
		}
		users = append(users, u)
	}
	return users, nil
}

func (repo *userRepository) DeleteUser(id user.ID) error {
	if !repo.db.user.remove(func(u user.User) bool { return u.ID == id }) {
		return user.ErrNotFound
	}
	return nil
}
