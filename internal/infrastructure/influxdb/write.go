package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// measurementVacuum holds one point per decoded robot status message.
const measurementVacuum = "vacuum_status"

// VacuumStatus is the telemetry recorded for one status message.
// Empty strings and a nil battery level are left out of the point.
type VacuumStatus struct {
	State              string
	Running            bool
	BatteryChargeLevel *int
	PowerMode          string
	CleanType          string
}

// WriteVacuumStatus queues a status point for a robot.
//
// The write is non-blocking; data is batched and sent asynchronously.
// Tags are the serial number and product type, so a series is one robot.
func (c *Client) WriteVacuumStatus(serialNumber, productType string, status VacuumStatus, ts time.Time) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(vacuumStatusPoint(serialNumber, productType, status, ts))
}

func vacuumStatusPoint(serialNumber, productType string, status VacuumStatus, ts time.Time) *write.Point {
	fields := map[string]interface{}{
		"running": status.Running,
	}
	if status.State != "" {
		fields["state"] = status.State
	}
	if status.BatteryChargeLevel != nil {
		fields["battery_percent"] = int64(*status.BatteryChargeLevel)
	}
	if status.PowerMode != "" {
		fields["power_mode"] = status.PowerMode
	}
	if status.CleanType != "" {
		fields["clean_type"] = status.CleanType
	}

	return write.NewPoint(
		measurementVacuum,
		map[string]string{
			"serial":       serialNumber,
			"product_type": productType,
		},
		fields,
		ts,
	)
}
