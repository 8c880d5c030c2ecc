package telemetry

import (
	"github.com/denisbrodbeck/machineid"
)

// RobotID retrieves the unique ID identifying this robot, used in
// topic naming.
func RobotID() string {
	id, err := machineid.ID()
	if err != nil {
		panic(err)
	}
	return id
}
