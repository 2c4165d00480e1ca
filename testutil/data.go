package testutil

import (
	"github.com/c360/sensorbuf/pkg/sensor"
)

// DemoCapacity is the buffer size used by the scripted demonstration.
const DemoCapacity = 5

// OverflowReading is pushed into the full demonstration buffer and must be rejected.
// Its sensor id is deliberately out of range; buffers do not validate.
var OverflowReading = sensor.Reading{Timestamp: 2000, SensorID: 99, Value: 99.9}

// FillReadings returns the DemoCapacity readings that fill the demonstration buffer:
// timestamp 1000+i, sensor i, value 20+i.
func FillReadings() []sensor.Reading {
	readings := make([]sensor.Reading, DemoCapacity)
	for i := range readings {
		readings[i] = sensor.Reading{
			Timestamp: uint32(1000 + i),
			SensorID:  uint8(i),
			Value:     20.0 + float32(i),
		}
	}
	return readings
}

// WrapReadings returns the seven readings written during the wrap-around step:
// timestamp 3000+i, sensor 10*i, value 30+i.
func WrapReadings() []sensor.Reading {
	readings := make([]sensor.Reading, 7)
	for i := range readings {
		readings[i] = sensor.Reading{
			Timestamp: uint32(3000 + i),
			SensorID:  uint8(i * 10),
			Value:     30.0 + float32(i),
		}
	}
	return readings
}

// RoundRobin returns n valid readings cycling over sensors channels, with
// timestamps counting up from start.
func RoundRobin(n, sensors int, start uint32) []sensor.Reading {
	if sensors <= 0 || sensors > sensor.MaxSensors {
		sensors = sensor.MaxSensors
	}
	readings := make([]sensor.Reading, n)
	for i := range readings {
		id := i % sensors
		readings[i] = sensor.Reading{
			Timestamp: start + uint32(i),
			SensorID:  uint8(id),
			Value:     float32(id)*10 + float32(i)/10,
		}
	}
	return readings
}

// Timestamps extracts the timestamps of readings, for order assertions.
func Timestamps(readings []sensor.Reading) []uint32 {
	out := make([]uint32, len(readings))
	for i, r := range readings {
		out[i] = r.Timestamp
	}
	return out
}
