package main

import (
	"time"

	"github.com/lvanness7690/homebridge-dyson-heurist/internal/infrastructure/influxdb"
	"github.com/lvanness7690/homebridge-dyson-heurist/internal/vacuum"
)

// statusObserver is the part of the Prometheus metrics the recorder needs.
type statusObserver interface {
	ObserveStatus(serialNumber, productType, state string, running bool, battery *int)
}

// multiRecorder forwards every status to each recorder in turn.
type multiRecorder []vacuum.StatusRecorder

// RecordStatus implements vacuum.StatusRecorder.
func (m multiRecorder) RecordStatus(serialNumber, productType string, status vacuum.Status) {
	for _, r := range m {
		r.RecordStatus(serialNumber, productType, status)
	}
}

// metricsRecorder feeds session statuses into the Prometheus gauges.
type metricsRecorder struct {
	observer statusObserver
}

// RecordStatus implements vacuum.StatusRecorder.
func (r metricsRecorder) RecordStatus(serialNumber, productType string, status vacuum.Status) {
	r.observer.ObserveStatus(serialNumber, productType, status.CurrentState(), status.Running(), status.BatteryChargeLevel)
}

// statusWriter is the part of the InfluxDB client the recorder needs.
type statusWriter interface {
	WriteVacuumStatus(serialNumber, productType string, status influxdb.VacuumStatus, ts time.Time)
}

// statusRecorder forwards session statuses to InfluxDB.
// The InfluxDB client batches writes, so recording never blocks a session.
type statusRecorder struct {
	writer statusWriter
	now    func() time.Time
}

func newStatusRecorder(writer statusWriter) *statusRecorder {
	return &statusRecorder{writer: writer, now: time.Now}
}

// RecordStatus implements vacuum.StatusRecorder.
func (r *statusRecorder) RecordStatus(serialNumber, productType string, status vacuum.Status) {
	r.writer.WriteVacuumStatus(serialNumber, productType, influxdb.VacuumStatus{
		State:              status.CurrentState(),
		Running:            status.Running(),
		BatteryChargeLevel: status.BatteryChargeLevel,
		PowerMode:          status.CurrentVacuumPowerMode,
		CleanType:          status.FullCleanType,
	}, r.now())
}
