package services

import "storefront/internal/domain"

// Access policy checks. A nil user is an anonymous caller and fails every
// check.

func IsOwner(u *domain.User, ownerID string) bool {
	return u != nil && u.ID != "" && u.ID == ownerID
}

// IsStaff is true for staff and superusers.
func IsStaff(u *domain.User) bool {
	return u != nil && (u.IsStaff || u.IsSuperuser)
}

func IsSuperuser(u *domain.User) bool {
	return u != nil && u.IsSuperuser
}

func requireUser(u *domain.User) error {
	if u == nil || u.ID == "" {
		return domain.ErrUnauthorized
	}
	return nil
}

func requireStaff(u *domain.User, action string) error {
	if err := requireUser(u); err != nil {
		return err
	}
	if !IsStaff(u) {
		return domain.Forbidden("%s requires staff privileges", action)
	}
	return nil
}

func requireSuperuser(u *domain.User, action string) error {
	if err := requireUser(u); err != nil {
		return err
	}
	if !IsSuperuser(u) {
		return domain.Forbidden("%s requires superuser privileges", action)
	}
	return nil
}

func requireOwnerOrStaff(u *domain.User, ownerID, action string) error {
	if err := requireUser(u); err != nil {
		return err
	}
	if !IsOwner(u, ownerID) && !IsStaff(u) {
		return domain.Forbidden("only the owner or staff can %s", action)
	}
	return nil
}
