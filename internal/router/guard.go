package router

// Action is the outcome of a guard check.
type Action int

const (
	Proceed Action = iota
	Redirect
)

func (a Action) String() string {
	if a == Redirect {
		return "redirect"
	}
	return "proceed"
}

// Decision says whether a navigation continues, and where to when it does not.
type Decision struct {
	Action   Action
	Location string
}

func (d Decision) String() string {
	if d.Action == Redirect {
		return "redirect to " + d.Location
	}
	return "proceed"
}

// Guard decides a navigation to the route from the current authentication state alone.
//
//	requires auth, anonymous         -> redirect to login
//	requires auth, authenticated     -> proceed
//	login/register, authenticated    -> redirect to dashboard
//	anything else                    -> proceed
func Guard(to Route, authenticated bool) Decision {
	if to.RequiresAuth && !authenticated {
		return Decision{Action: Redirect, Location: LoginPath}
	}
	if !to.RequiresAuth && authenticated && isEntry(to) {
		return Decision{Action: Redirect, Location: DashboardPath}
	}
	return Decision{Action: Proceed}
}

func isEntry(r Route) bool {
	return r.Path == LoginPath || r.Path == RegisterPath
}
