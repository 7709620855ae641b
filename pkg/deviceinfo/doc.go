// Package deviceinfo serves the descriptive metadata of a light device:
// fixed labels, user labels, supported locales and supported calendar types.
//
// Every list is read through an Iterator. Iterators are created fresh per
// call, own their cursor and are released by the caller when done:
//
//	it := provider.IterateFixedLabel(1)
//	defer it.Release()
//	var l deviceinfo.Label
//	for it.Next(&l) {
//		fmt.Println(l)
//	}
//
// or, with range-over-func:
//
//	for l := range deviceinfo.All[deviceinfo.Label](provider.IterateFixedLabel(1)) {
//		fmt.Println(l)
//	}
//
// Fixed labels, locales and calendar types are compiled in. User labels live
// in a persistence.KVStore: the label count of an endpoint under
// persistence.UserLabelLengthKey and each record, CBOR-encoded by package
// wire, under persistence.UserLabelIndexKey.
//
// A Provider does no locking. It is meant to be driven from a single
// goroutine, such as the device's event loop.
package deviceinfo
