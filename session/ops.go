package session

import (
	"honnef.co/go/inkedit/curve"
	"honnef.co/go/inkedit/history"
)

// AddStrokeOp returns the operation that appends fc to s. Applying it
// re-attaches s if it was removed; reverting the only stroke removes s.
func AddStrokeOp(s *Ink, fc curve.FittedCurve) history.Operation {
	c := s.coord
	return history.Operation{
		Apply: func() {
			if s.removed() {
				c.attach(s)
			}
			s.pushStroke(fc)
			s.state = Committed
			c.notify(EventChanged, s)
		},
		Revert: func() {
			s.popStroke()
			if s.IsEmpty() {
				c.detach(s)
				return
			}
			c.notify(EventChanged, s)
		},
	}
}

// SetAttributeOp returns the operation that changes attribute key of s from
// oldValue to newValue. Consecutive operations for the same attribute of the
// same session coalesce into one undo step that restores the value from
// before the first of them.
func SetAttributeOp(s Session, key Param, oldValue, newValue any) history.Operation {
	c := s.common().coord
	return history.Operation{
		Apply: func() {
			s.applyParam(key, newValue)
			c.notify(EventChanged, s)
		},
		Revert: func() {
			s.applyParam(key, oldValue)
			c.notify(EventChanged, s)
		},
		CoalesceKey: key.String() + "/" + s.ID(),
		KeepUndo:    true,
	}
}

// addSessionOp returns the operation that puts s into its coordinator's
// registry.
func addSessionOp(s Session) history.Operation {
	c := s.common().coord
	return history.Operation{
		Apply:  func() { c.attach(s) },
		Revert: func() { c.detach(s) },
	}
}

// removeSessionsOp returns the operation that takes all of ss out of the
// registry at once.
func removeSessionsOp(ss []Session) history.Operation {
	if len(ss) == 0 {
		return history.Operation{}
	}
	c := ss[0].common().coord
	return history.Operation{
		Apply: func() {
			for _, s := range ss {
				c.detach(s)
			}
		},
		Revert: func() {
			for _, s := range ss {
				c.attach(s)
			}
		},
	}
}
