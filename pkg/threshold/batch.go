package threshold

import (
	"context"

	"github.com/mr-shifu/tpaillier/core/paillier"
	"golang.org/x/sync/errgroup"
)

// ApplyAll strips share from every ciphertext concurrently. The output keeps
// the order of cts.
func ApplyAll(ctx context.Context, share *paillier.KeyShare, cts []*paillier.EncryptedNumber) ([]*paillier.EncryptedNumber, error) {
	out := make([]*paillier.EncryptedNumber, len(cts))
	eg, ctx := errgroup.WithContext(ctx)
	for i := range cts {
		i := i
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			next, err := share.PartiallyDecrypt(cts[i])
			if err != nil {
				return err
			}
			out[i] = next
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
