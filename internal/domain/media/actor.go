package media

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Actor is the caller on whose behalf an operation runs.
type Actor struct {
	UserID string
	Role   string
}

// SystemActor runs scheduled maintenance.
var SystemActor = Actor{UserID: "system", Role: RoleAdmin}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanModify reports whether the actor may mutate a record owned by uploaderID.
func (a Actor) CanModify(uploaderID string) bool {
	return a.IsAdmin() || (a.UserID != "" && a.UserID == uploaderID)
}
