// Package testutil provides shared reading fixtures for sensorbuf tests.
//
// The fixtures reproduce the scripted demonstration (a capacity-5 buffer filled,
// overflowed, drained and wrapped) and generate round-robin reading streams for
// simulation and recorder tests. Everything returns fresh slices, so tests may
// modify what they get.
//
// Usage:
//
//	buf, _ := sensor.NewBuffer(testutil.DemoCapacity)
//	for _, r := range testutil.FillReadings() {
//	    _ = buf.Push(r)
//	}
//	err := buf.Push(testutil.OverflowReading) // errors.ErrBufferFull
package testutil
