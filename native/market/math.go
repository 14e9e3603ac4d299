package market

import "math/big"

// CreatorPayout is one non-seller creator's royalty accrual from a
// settlement.
type CreatorPayout struct {
	Creator [20]byte
	Amount  *big.Int
}

// Settlement is the exact division of a sale or auction payment. The
// invariant Fee + Σ CreatorPayouts + SellerProceeds == amount holds for
// every input: integer division truncates and all truncation dust lands in
// SellerProceeds.
type Settlement struct {
	Fee            *big.Int
	CreatorPayouts []CreatorPayout
	SellerProceeds *big.Int
}

// splitSettlement divides a payment into the platform fee, the royalty
// accruals for every creator other than the seller, and the seller's direct
// proceeds. When the seller is the sole original creator the whole
// post-fee remainder goes to the seller unsplit.
func splitSettlement(amount *big.Int, feeBps uint32, creators [][20]byte, shares []uint16, seller [20]byte) *Settlement {
	fee := new(big.Int).Mul(amount, big.NewInt(int64(feeBps)))
	fee.Div(fee, big.NewInt(royaltyDenominator))

	remainder := new(big.Int).Sub(amount, fee)
	out := &Settlement{Fee: fee}

	if len(creators) == 1 && creators[0] == seller {
		out.SellerProceeds = remainder
		return out
	}

	proceeds := new(big.Int).Set(remainder)
	for i, creator := range creators {
		if creator == seller {
			continue
		}
		share := new(big.Int).Mul(remainder, big.NewInt(int64(shares[i])))
		share.Div(share, big.NewInt(royaltyDenominator))
		if share.Sign() == 0 {
			continue
		}
		out.CreatorPayouts = append(out.CreatorPayouts, CreatorPayout{Creator: creator, Amount: share})
		proceeds.Sub(proceeds, share)
	}
	out.SellerProceeds = proceeds
	return out
}
