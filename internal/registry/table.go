package registry

// entry holds the communication endpoints retained for one device.
// settings is nil for read-only devices.
type entry struct {
	values   *Broadcaster
	settings chan<- Setting
}

// table maps device names to their endpoints. It is a plain data
// structure with no locking: the Registrar goroutine is its only owner,
// and nothing else ever reads or writes it.
type table struct {
	devices map[string]entry
}

func newTable() *table {
	return &table{
		devices: make(map[string]entry),
	}
}

// addReadonly inserts a read-only device if the name is free. It returns
// the device's value broadcaster and true on success, or nil and false
// when the name is already taken. The table keeps the broadcaster too, so
// subscribers can attach independently of the registering driver.
func (t *table) addReadonly(name string) (*Broadcaster, bool) {
	if _, exists := t.devices[name]; exists {
		return nil, false
	}

	tx := NewBroadcaster(valueBacklog)
	t.devices[name] = entry{values: tx}

	return tx, true
}

// addReadWrite inserts a read-write device if the name is free. On
// success it returns the value broadcaster and the receive end of a fresh
// bounded settings channel; the table retains the send end for the future
// control layer.
func (t *table) addReadWrite(name string) (*Broadcaster, <-chan Setting, bool) {
	if _, exists := t.devices[name]; exists {
		return nil, nil, false
	}

	tx := NewBroadcaster(valueBacklog)
	settings := make(chan Setting, settingBacklog)
	t.devices[name] = entry{values: tx, settings: settings}

	return tx, settings, true
}

// size returns the number of registered devices.
func (t *table) size() int {
	return len(t.devices)
}
