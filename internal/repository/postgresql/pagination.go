package postgresql

import (
	"fmt"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/pagination"
)

// limitOffset renders LIMIT/OFFSET placeholders starting at argIdx; an empty clause when the
// caller asked for every row
func limitOffset(p pagination.Params, argIdx int) (string, []interface{}) {
	if p.QueryLimit() == 0 {
		return "", nil
	}
	return fmt.Sprintf("LIMIT $%d OFFSET $%d", argIdx, argIdx+1), []interface{}{p.QueryLimit(), p.Skip()}
}
