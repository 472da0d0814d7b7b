// Package gpio drives output pins and watches input edges through one of
// several GPIO libraries.
package gpio

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"
)

// Pin is a GPIO line configured as output.
type Pin interface {
	io.Closer
	// Set drives the line high or low.
	Set(high bool) error
}

// Edge is a level change observed on an input line.
type Edge struct {
	// Timestamp is monotonic, only differences are meaningful.
	Timestamp time.Duration
	Rising    bool
}

// Driver opens GPIO lines.
type Driver interface {
	// Name returns the registered name of the driver.
	Name() string
	// OpenOutput requests a line as output, initially low.
	OpenOutput(pin int) (Pin, error)
	// Watch reports edges of a line until the returned Closer is closed.
	Watch(pin int, fn func(Edge)) (io.Closer, error)
}

// Config selects a driver.
type Config struct {
	// Driver is the registered driver name.
	Driver string
	// Chip is the GPIO character device, used by drivers addressing chips.
	Chip string
}

var (
	// ErrWatchNotSupported indicates the driver cannot watch edges.
	ErrWatchNotSupported = errors.New("edge watching not supported by driver")
	// ErrInvalidPin indicates a pin number the driver cannot address.
	ErrInvalidPin = errors.New("invalid GPIO pin")

	drivers = make(map[string]func(Config) (Driver, error))
)

// Register registers a driver factory, usually from init.
func Register(name string, factory func(Config) (Driver, error)) {
	drivers[name] = factory
}

// Drivers lists the registered driver names.
func Drivers() []string {
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewDriver creates the driver selected by the config.
func (c Config) NewDriver() (Driver, error) {
	factory, ok := drivers[c.Driver]
	if !ok {
		return nil, fmt.Errorf("unknown GPIO driver %q, available: %v", c.Driver, Drivers())
	}
	return factory(c)
}
