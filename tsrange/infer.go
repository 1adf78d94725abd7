package tsrange

import (
	"fmt"
	"time"

	"github.com/arloliu/fameport/errs"
	"github.com/arloliu/fameport/registry"
)

// inferOrder lists candidate frequencies from finest to coarsest, so that a
// run of consecutive weekdays is daily rather than business daily.
var inferOrder = []registry.HostFreq{
	registry.Millisecondly,
	registry.Secondly,
	registry.Minutely,
	registry.Hourly,
	registry.Daily,
	registry.Business,
	registry.WeeklyFriday,
	registry.Monthly,
	registry.Quarterly,
	registry.Annual,
}

// InferFrequency returns the single host frequency at which times form a
// contiguous index. At least two times are needed.
func InferFrequency(times []time.Time) (registry.HostFreq, error) {
	if len(times) < 2 {
		return "", fmt.Errorf("%w: need at least 2 times to infer a frequency, got %d",
			errs.ErrNonContiguousIndex, len(times))
	}

	for _, freq := range inferOrder {
		if _, err := NewDateIndex(freq, times); err == nil {
			return freq, nil
		}
	}

	return "", fmt.Errorf("%w: no frequency fits %s..%s", errs.ErrNonContiguousIndex,
		times[0].Format(time.RFC3339), times[len(times)-1].Format(time.RFC3339))
}

// InferDateIndex infers the frequency of times and returns the validated index.
func InferDateIndex(times []time.Time) (DateIndex, error) {
	freq, err := InferFrequency(times)
	if err != nil {
		return DateIndex{}, err
	}

	return NewDateIndex(freq, times)
}
