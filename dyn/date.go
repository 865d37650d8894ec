package dyn

import "time"

// Date is a mutable timestamp box. The pointer is the node identity, so two
// values can share one date and a clone allocates a fresh one.
type Date struct {
	t time.Time
}

func (d *Date) Time() time.Time     { return d.t }
func (d *Date) SetTime(t time.Time) { d.t = t }
func (d *Date) Unix() int64         { return d.t.Unix() }
func (d *Date) UnixMilli() int64    { return d.t.UnixMilli() }
