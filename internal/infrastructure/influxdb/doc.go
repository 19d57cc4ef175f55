// Package influxdb records Dyson robot telemetry in InfluxDB.
//
// It wraps the official influxdb-client-go v2 library with connection
// management, batched non-blocking writes and health checks. Telemetry is
// optional: Connect returns ErrDisabled when the influxdb section of the
// config is switched off.
//
// # Usage
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	battery := 80
//	client.WriteVacuumStatus("JH1-EU-ABC1234A", "276", influxdb.VacuumStatus{
//	    State:              "FULL_CLEAN_RUNNING",
//	    Running:            true,
//	    BatteryChargeLevel: &battery,
//	}, time.Now())
//
// # Error Handling
//
// Write failures surface asynchronously through SetOnError. Connection and
// health check errors are returned directly.
package influxdb
