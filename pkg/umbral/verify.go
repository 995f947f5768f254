package umbral

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// VerifyCFragsConcurrently verifies each of cfrags against capsule in
// parallel and returns the index of an invalid one with its error, or -1
// if all pass. The reported index is the first failure to complete; when
// several cfrags are invalid, which of them is reported is not defined
// (it need not be the lowest index). Capsule verification itself is unaffected by this -- callers
// still call capsule.Verify once up front.
//
// Grounded on the fan-out/fan-in pattern the teacher repo's go.mod
// carries golang.org/x/sync for; spec.md §5 explicitly notes that
// callers "may freely parallelize across independent capsules, KFrags,
// or CFrags", and batch CFrag verification is the natural place in this
// module to exercise that.
func VerifyCFragsConcurrently(params *Parameters, capsule *Capsule, pkDelegating, pkReceiving, pkSigner *PublicKey, cfrags []*CFrag) (int, error) {
	g, _ := errgroup.WithContext(context.Background())
	for i, cfrag := range cfrags {
		i, cfrag := i, cfrag
		g.Go(func() error {
			if err := cfrag.Verify(params, capsule, pkDelegating, pkReceiving, pkSigner); err != nil {
				return indexedError{index: i, err: err}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ie, ok := err.(indexedError); ok {
			return ie.index, ie.err
		}
		return -1, err
	}
	return -1, nil
}

// VerifyKFragsConcurrently is VerifyCFragsConcurrently's KFrag-side
// counterpart, for a proxy operator checking a freshly received batch
// before storing it.
func VerifyKFragsConcurrently(params *Parameters, pkSigner, maybeDelegating, maybeReceiving *PublicKey, kfrags []*KFrag) (int, error) {
	g, _ := errgroup.WithContext(context.Background())
	for i, kfrag := range kfrags {
		i, kfrag := i, kfrag
		g.Go(func() error {
			if err := kfrag.Verify(params, pkSigner, maybeDelegating, maybeReceiving); err != nil {
				return indexedError{index: i, err: err}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ie, ok := err.(indexedError); ok {
			return ie.index, ie.err
		}
		return -1, err
	}
	return -1, nil
}

type indexedError struct {
	index int
	err   error
}

func (e indexedError) Error() string { return e.err.Error() }
func (e indexedError) Unwrap() error { return e.err }
