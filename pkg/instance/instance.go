package instance

import "github.com/angelmondragon/packfinderz-cart/pkg/env"

// GetID returns the process instance identifier used in log context.
func GetID() string {
	return env.First("local", "CART_INSTANCE_ID", "DYNO", "HOSTNAME")
}
