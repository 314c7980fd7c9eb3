package bot

// Permissions are the two booleans that gate every privileged command.
type Permissions struct {
	Elevated bool // live mod badge or membership in the trusted list
	Owner    bool // the broadcaster themselves
}

// EvaluatePermissions classifies the issuer. Absent role data defaults to
// false; there is no error path.
func EvaluatePermissions(ev Event, trusted map[string]bool, channel string) Permissions {
	return Permissions{
		Elevated: ev.Mod || trusted[ev.User],
		Owner:    ev.User == channel,
	}
}
