// Package identity - users.go implements user account management and
// membership attachment. Memberships are mirrored: the user carries an
// {orgId, roles} reference and the organization carries the matching member
// record, and both sides are written in the same document update.
package identity

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/askbase/identity-store/internal/auth"
	"github.com/askbase/identity-store/internal/crypto"
	"github.com/askbase/identity-store/internal/store/models"
)

// OrgUserResult is the outcome of a find-or-create provisioning call. When a
// password was generated for a new user it is revealed here exactly once.
type OrgUserResult struct {
	User              SafeUser
	Created           bool
	GeneratedPassword string
}

// CreateUserAccount creates a user with the given credentials. Emails are
// unique case-insensitively.
func (s *Service) CreateUserAccount(email, name, password string, globalRoles []string) (*SafeUser, error) {
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, err
	}
	if globalRoles == nil {
		globalRoles = []string{}
	}

	user := &models.UserAccount{
		ID:            uuid.New().String(),
		Email:         email,
		Name:          name,
		PasswordHash:  hash,
		GlobalRoles:   globalRoles,
		Organizations: []models.UserMembership{},
		CreatedAt:     models.NowStamp(),
		Status:        models.StatusActive,
	}

	err = s.store.Update(func(doc *models.Document) error {
		if doc.UserByEmail(email) != nil {
			return ErrEmailInUse
		}
		doc.Users[user.ID] = user
		doc.Audit(models.NewAuditEvent(user.ID, "user.create", "",
			fmt.Sprintf("created account for %s", email)))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user account created", "user_id", user.ID, "email", email)
	safe := ToSafeUser(user)
	return &safe, nil
}

// GetUser returns the safe view of a user by id.
func (s *Service) GetUser(userID string) (*SafeUser, error) {
	doc, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	user, ok := doc.Users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	safe := ToSafeUser(user)
	return &safe, nil
}

// GetUserByEmail returns the safe view of a user by email, matched
// case-insensitively.
func (s *Service) GetUserByEmail(email string) (*SafeUser, error) {
	doc, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	user := doc.UserByEmail(email)
	if user == nil {
		return nil, ErrUserNotFound
	}
	safe := ToSafeUser(user)
	return &safe, nil
}

// UpdateUserLastLogin stamps the user's last-login timestamp.
func (s *Service) UpdateUserLastLogin(userID string) error {
	return s.store.Update(func(doc *models.Document) error {
		user, ok := doc.Users[userID]
		if !ok {
			return ErrUserNotFound
		}
		now := models.NowStamp()
		user.LastLoginAt = &now
		return nil
	})
}

// VerifyUserPassword checks a login attempt against the stored hash. A
// malformed stored hash verifies false, indistinguishable from a wrong
// password.
func (s *Service) VerifyUserPassword(email, password string) (*SafeUser, bool, error) {
	doc, err := s.store.Load()
	if err != nil {
		return nil, false, err
	}
	user := doc.UserByEmail(email)
	if user == nil || user.Status != models.StatusActive {
		return nil, false, nil
	}
	if !crypto.VerifyPassword(password, user.PasswordHash) {
		return nil, false, nil
	}
	safe := ToSafeUser(user)
	return &safe, true, nil
}

// AttachUserToOrganization idempotently sets or replaces a user's role set
// within an organization, mirroring the membership on both sides. Calling it
// twice with the same arguments leaves exactly one membership per side with
// the latest role set.
func (s *Service) AttachUserToOrganization(userID, orgID string, roles []string) error {
	for _, role := range roles {
		if !models.IsValidOrgRole(role) {
			return fmt.Errorf("%w: %q", ErrInvalidRole, role)
		}
	}

	return s.store.Update(func(doc *models.Document) error {
		user, ok := doc.Users[userID]
		if !ok {
			return ErrUserNotFound
		}
		org, ok := doc.Organizations[orgID]
		if !ok {
			return ErrOrgNotFound
		}

		attachMembership(user, org, roles)
		doc.Audit(models.NewAuditEvent(userID, "member.attach", orgID,
			fmt.Sprintf("roles set to [%s]", strings.Join(roles, " "))))
		return nil
	})
}

// attachMembership writes both halves of a membership. Existing entries are
// updated in place; new ones are appended with a fresh invite/join stamp.
func attachMembership(user *models.UserAccount, org *models.Organization, roles []string) {
	roleCopy := append([]string{}, roles...)

	if m := user.MembershipFor(org.ID); m != nil {
		m.Roles = roleCopy
	} else {
		user.Organizations = append(user.Organizations, models.UserMembership{
			OrgID: org.ID,
			Roles: roleCopy,
		})
	}

	if m := org.MemberFor(user.ID); m != nil {
		m.Roles = append([]string{}, roles...)
	} else {
		now := models.NowStamp()
		org.Members = append(org.Members, models.Member{
			UserID:    user.ID,
			Roles:     append([]string{}, roles...),
			InvitedAt: now,
			JoinedAt:  &now,
			Status:    models.StatusActive,
		})
	}
}

// CreateOrUpdateOrgUser finds a user by email or creates one, then attaches
// or updates their membership on the organization. A created user with no
// supplied password gets a generated one, revealed once in the result.
func (s *Service) CreateOrUpdateOrgUser(orgID, email, name string, roles []string, password string) (*OrgUserResult, error) {
	for _, role := range roles {
		if !models.IsValidOrgRole(role) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
		}
	}

	result := &OrgUserResult{}
	err := s.store.Update(func(doc *models.Document) error {
		org, ok := doc.Organizations[orgID]
		if !ok {
			return ErrOrgNotFound
		}

		user := doc.UserByEmail(email)
		if user == nil {
			pw := password
			if pw == "" {
				generated, err := auth.GeneratePassword()
				if err != nil {
					return err
				}
				pw = generated
				result.GeneratedPassword = generated
			}
			hash, err := crypto.HashPassword(pw)
			if err != nil {
				return err
			}
			user = &models.UserAccount{
				ID:            uuid.New().String(),
				Email:         email,
				Name:          name,
				PasswordHash:  hash,
				GlobalRoles:   []string{},
				Organizations: []models.UserMembership{},
				CreatedAt:     models.NowStamp(),
				Status:        models.StatusActive,
			}
			doc.Users[user.ID] = user
			result.Created = true
			doc.Audit(models.NewAuditEvent(user.ID, "user.create", orgID,
				fmt.Sprintf("provisioned account for %s", email)))
		}

		attachMembership(user, org, roles)
		doc.Audit(models.NewAuditEvent(user.ID, "member.attach", orgID,
			fmt.Sprintf("roles set to [%s]", strings.Join(roles, " "))))
		result.User = ToSafeUser(user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
