// Package resource provides generation-checked handle tables.
//
// Values that must be referenced from outside Go, such as engine instances
// handed to C callers, live in a Table and are addressed by an integer
// Handle instead of a pointer.
//
// # Handle Table
//
//	table := resource.NewTable[*Instance]()
//
//	// Insert a value, get a handle
//	handle := table.Insert(inst)
//
//	// Retrieve value by handle
//	inst, ok := table.Get(handle)
//
//	// Remove and get value
//	inst, ok := table.Remove(handle)
//
// # Generations
//
// A handle packs a slot index with the slot's generation. Removing a value
// frees the slot; the next insert into that slot bumps the generation, so
// the old handle keeps failing lookups instead of aliasing the new value.
// Handle 0 never resolves.
//
// # Observers
//
// Register observers to track lifecycle events:
//
//	table.Subscribe(resource.ObserverFunc(func(e resource.Event) {
//	    switch e.Type {
//	    case resource.EventCreated:
//	        log.Printf("resource %s created", e.Handle)
//	    case resource.EventDropped:
//	        log.Printf("resource %s dropped", e.Handle)
//	    }
//	}))
//
// # Cleanup
//
// Values implementing Dropper have Drop called when removed and when the
// table is closed. Nothing is reclaimed automatically: a handle that is
// never removed keeps its value alive until Close.
package resource
