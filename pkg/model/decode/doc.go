// Package decode converts raw store records into typed entity model values.
//
// A raw record is a nested map as returned by a source: keys are either the
// storage-mangled form of a field ("_Household__head") or, for sub-records the
// store saved in clean form, the clean field name itself. For every field the
// entity schema declares, the decoder looks up the mangled key first and falls
// back to the clean key. Unknown keys are ignored.
//
// Decoding is all-or-nothing: a record either decodes completely or the call
// returns a *model.DecodeError and no entity. The error's Field is the dotted
// path from the decoded root, e.g. "others[1].sex".
//
// Household identifiers are derived from the store's native "_id" with a
// name-based UUID (version 5), so repeated exports of the same record produce
// the same external id:
//
//	d := decode.New()
//	h, err := d.Household(raw)
//	if err != nil {
//	    var decErr *model.DecodeError
//	    if errors.As(err, &decErr) { ... }
//	}
package decode
