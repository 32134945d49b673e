package gallery

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidSettings is returned for columns or page sizes outside the
// allowed options.
var ErrInvalidSettings = errors.New("invalid gallery settings")

const (
	MinColumns = 1
	MaxColumns = 5

	DefaultColumns  = 3
	DefaultPageSize = 12
)

// PageSizeOptions are the selectable page sizes, ascending.
var PageSizeOptions = []int{3, 6, 9, 12, 15, 20, 50}

// Settings controls the grid layout. It is input to paging, never changed by
// navigation.
type Settings struct {
	Columns  int `json:"columns"`
	PageSize int `json:"pageSize"`
}

// DefaultSettings returns three columns of twelve images per page.
func DefaultSettings() Settings {
	return Settings{Columns: DefaultColumns, PageSize: DefaultPageSize}
}

// Validate reports whether s only uses allowed values.
func (s Settings) Validate() error {
	if s.Columns < MinColumns || s.Columns > MaxColumns {
		return fmt.Errorf("%w: columns must be between %d and %d, got %d",
			ErrInvalidSettings, MinColumns, MaxColumns, s.Columns)
	}
	if !slices.Contains(PageSizeOptions, s.PageSize) {
		return fmt.Errorf("%w: page size must be one of %v, got %d",
			ErrInvalidSettings, PageSizeOptions, s.PageSize)
	}
	return nil
}

// StepPageSize moves the page size delta positions through PageSizeOptions,
// stopping at either end. An unknown size snaps to the default first.
func (s Settings) StepPageSize(delta int) Settings {
	i := slices.Index(PageSizeOptions, s.PageSize)
	if i < 0 {
		i = slices.Index(PageSizeOptions, DefaultPageSize)
	}
	i = max(0, min(len(PageSizeOptions)-1, i+delta))
	s.PageSize = PageSizeOptions[i]
	return s
}

// StepColumns adds delta columns, staying within [MinColumns, MaxColumns].
func (s Settings) StepColumns(delta int) Settings {
	s.Columns = max(MinColumns, min(MaxColumns, s.Columns+delta))
	return s
}

// Options describes the selectable values for settings forms.
type Options struct {
	Columns   []int    `json:"columns"`
	PageSizes []int    `json:"pageSizes"`
	Defaults  Settings `json:"defaults"`
}

// SettingsOptions lists every allowed value, with defaults as given.
func SettingsOptions(defaults Settings) Options {
	cols := make([]int, 0, MaxColumns-MinColumns+1)
	for c := MinColumns; c <= MaxColumns; c++ {
		cols = append(cols, c)
	}
	return Options{
		Columns:   cols,
		PageSizes: slices.Clone(PageSizeOptions),
		Defaults:  defaults,
	}
}
