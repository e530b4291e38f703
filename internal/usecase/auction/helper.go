package auction

import (
	"errors"

	domain "aura-lend/internal/domain/auction"
)

func isNotFound(err error) bool { return errors.Is(err, domain.ErrAuctionNotFound) }
