package mpu

// handleDataReady is the line handler. Any number of calls between two
// CheckDataReady calls are observed as a single event.
func (d *Device) handleDataReady() {
	d.dataReady.Store(true)
	if d.config.Update != nil {
		d.config.Update(d)
	}
}

// CheckDataReady reports whether a data-ready edge arrived since the last call
// and clears the latch in the same atomic operation.
func (d *Device) CheckDataReady() bool {
	return d.dataReady.Swap(false)
}
