package nwb

import (
	"fmt"
	"strings"

	"github.com/ctessum/unit"

	"github.com/nixworks/nixworks/errs"
)

var perSecond = unit.Dimensions{unit.TimeDim: -1}

var (
	second      = unit.New(1, unit.Second)
	millisecond = unit.New(1e-3, unit.Second)
	microsecond = unit.New(1e-6, unit.Second)
	minute      = unit.New(60, unit.Second)
	hour        = unit.New(3600, unit.Second)
)

// timeUnits maps accepted time unit names to one of that unit.
var timeUnits = map[string]*unit.Unit{
	"s":            second,
	"sec":          second,
	"second":       second,
	"seconds":      second,
	"ms":           millisecond,
	"millisecond":  millisecond,
	"milliseconds": millisecond,
	"us":           microsecond,
	"µs":           microsecond,
	"microsecond":  microsecond,
	"microseconds": microsecond,
	"min":          minute,
	"minute":       minute,
	"minutes":      minute,
	"h":            hour,
	"hour":         hour,
	"hours":        hour,
}

// duration scales one of the named time unit by v. An empty unit means
// seconds.
func duration(v float64, name string) (*unit.Unit, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = "s"
	}
	per, ok := timeUnits[key]
	if !ok {
		return nil, fmt.Errorf("%w: time unit %q", errs.ErrInvalidUnit, name)
	}

	return unit.Mul(unit.New(v, unit.Dimless), per), nil
}

// toSeconds rescales v from the named time unit to seconds.
func toSeconds(v float64, name string) (float64, error) {
	d, err := duration(v, name)
	if err != nil {
		return 0, err
	}
	if err := d.Check(unit.Second); err != nil {
		return 0, fmt.Errorf("%w: %w", errs.ErrInvalidUnit, err)
	}

	return d.Value(), nil
}

// rateFromInterval returns the sampling rate in Hz of an interval given in
// the named time unit.
func rateFromInterval(interval float64, name string) (float64, error) {
	d, err := duration(interval, name)
	if err != nil {
		return 0, err
	}
	if d.Value() <= 0 {
		return 0, fmt.Errorf("%w: sampling interval %g", errs.ErrInvalidDimension, interval)
	}

	rate := unit.Div(unit.New(1, unit.Dimless), d)
	if err := rate.Check(perSecond); err != nil {
		return 0, fmt.Errorf("%w: %w", errs.ErrInvalidUnit, err)
	}

	return rate.Value(), nil
}
