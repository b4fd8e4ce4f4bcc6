package domain

type User struct {
	ID          string `db:"id" json:"id"`
	Username    string `db:"username" json:"username"`
	Email       string `db:"email" json:"email"`
	Hash        string `db:"password_hash" json:"-"`
	IsStaff     bool   `db:"is_staff" json:"is_staff"`
	IsSuperuser bool   `db:"is_superuser" json:"is_superuser"`
}
