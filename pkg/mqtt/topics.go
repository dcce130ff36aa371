package mqtt

import "fmt"

// Topic layout: lighting/cputemp/{kind}/{host}

// StateTopic returns the topic for periodic temperature/color state
// messages from a host.
func StateTopic(host string) string {
	return fmt.Sprintf("lighting/cputemp/state/%s", host)
}

// StatusTopic returns the topic for daemon lifecycle announcements
// (started, stopping) from a host.
func StatusTopic(host string) string {
	return fmt.Sprintf("lighting/cputemp/status/%s", host)
}
