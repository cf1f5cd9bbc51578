// Package errors defines the single error surface shared by every
// component in the module.
//
// There is one error type, Error, carrying a Kind from a small closed
// taxonomy plus the identity of the resource involved (when one is
// known). Callers distinguish failures by kind:
//
//	res, err := store.Get(id)
//	if errors.IsKind(err, errors.KindNotFound) {
//	    // absence was expected, fall back
//	}
//
// The standard library's errors.Is also works, matching on kind:
//
//	errors.Is(err, &stageerrors.Error{Kind: stageerrors.KindNotFound})
//
// No operation in the module aborts the process; every contract
// violation surfaces as one of these values.
package errors
