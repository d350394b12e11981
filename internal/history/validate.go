package history

import (
	"fmt"
	"time"

	"fxi-data/internal/model"
)

const barLayout = "02-Jan-2006 15:04"

// lastMinute is the offset of the final M1 bar of a day (23:59).
const lastMinute = 23*time.Hour + 59*time.Minute

// ValidateDay checks that bars form exactly one complete day starting at day.
func ValidateDay(day time.Time, bars []model.Bar) error {
	if n := len(bars); n != model.MinutesPerDay {
		return fmt.Errorf("%w: invalid number of bars for %s: expected %d, got %d%s",
			model.ErrValidation, day.Format(model.DayLayout), model.MinutesPerDay, n, span(bars))
	}
	if first := bars[0].Unix(); !first.Equal(day) {
		return fmt.Errorf("%w: no beginning bar for %s: expected %s, first bar %s",
			model.ErrValidation, day.Format(model.DayLayout), day.Format(barLayout), describe(bars[0]))
	}
	last := bars[len(bars)-1]
	if want := day.Add(lastMinute); !last.Unix().Equal(want) {
		return fmt.Errorf("%w: no ending bar for %s: expected %s, last bar %s",
			model.ErrValidation, day.Format(model.DayLayout), want.Format(barLayout), describe(last))
	}
	return nil
}

func describe(b model.Bar) string {
	return fmt.Sprintf("{time=%s open=%d high=%d low=%d close=%d ticks=%d}",
		b.Unix().Format(barLayout), b.Open, b.High, b.Low, b.Close, b.Ticks)
}

func span(bars []model.Bar) string {
	if len(bars) == 0 {
		return ""
	}
	return fmt.Sprintf(" (from=%s to=%s)", bars[0].Unix().Format(barLayout), bars[len(bars)-1].Unix().Format(barLayout))
}
