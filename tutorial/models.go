package tutorial

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kbukum/fluxkit/errors"
)

// User is a person parsed from a "First Last" name.
type User struct {
	FirstName string
	LastName  string
}

// NewUser creates a User.
func NewUser(first, last string) User {
	return User{FirstName: first, LastName: last}
}

// SplitName splits a full name on whitespace. The first word is the first
// name and the rest is the last name; a blank name gives an empty User.
func SplitName(fullName string) User {
	words := strings.Fields(fullName)
	if len(words) == 0 {
		return User{}
	}
	return NewUser(words[0], strings.Join(words[1:], " "))
}

// ParseUser is SplitName that rejects blank names.
func ParseUser(fullName string) (User, error) {
	u := SplitName(fullName)
	if err := RequireName(u); err != nil {
		return User{}, err
	}
	return u, nil
}

// RequireName fails with INVALID_INPUT when u has no first name.
func RequireName(u User) error {
	if u.FirstName == "" {
		return errors.InvalidInput("name", "names cannot be empty")
	}
	return nil
}

// Upper returns u with both names upper-cased.
func (u User) Upper() User {
	return NewUser(strings.ToUpper(u.FirstName), strings.ToUpper(u.LastName))
}

// FullName returns "First Last".
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u User) String() string {
	return fmt.Sprintf("User [firstName=%s, lastName=%s]", u.FirstName, u.LastName)
}

// Comments is an ordered list of comments.
type Comments struct {
	items []string
}

// NewComments creates Comments holding items in order.
func NewComments(items ...string) Comments {
	return Comments{items: slices.Clone(items)}
}

// Add appends a comment.
func (c *Comments) Add(comment string) {
	c.items = append(c.items, comment)
}

// Items returns a copy of the comments.
func (c Comments) Items() []string {
	return slices.Clone(c.items)
}

func (c Comments) String() string {
	return "Comments [comments=[" + strings.Join(c.items, ", ") + "]]"
}

// UserComments pairs a user with their comments.
type UserComments struct {
	User     User
	Comments Comments
}

// NewUserComments creates a UserComments.
func NewUserComments(u User, c Comments) UserComments {
	return UserComments{User: u, Comments: c}
}

func (uc UserComments) String() string {
	return fmt.Sprintf("UserComments [user=%s, comments=%s]", uc.User, uc.Comments)
}
