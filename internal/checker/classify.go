package checker

import "github.com/MimoJanra/SitePulse/internal/models"

var softFailureStatusCodes = map[int]struct{}{
	502: {},
	503: {},
	504: {},
}

var softFailureErrors = map[string]struct{}{
	ErrConnectionTimeout: {},
	"fetch failed":       {},
}

// IsSoftFailure reports whether a failure looks transient: a gateway-class
// status code, or a timeout-style error with no status code at all.
func IsSoftFailure(statusCode *int, errMsg *string) bool {
	if statusCode != nil {
		_, ok := softFailureStatusCodes[*statusCode]
		return ok
	}
	if errMsg == nil {
		return false
	}
	_, ok := softFailureErrors[*errMsg]
	return ok
}

func IsSoftFailureCheck(c models.Check) bool {
	return c.Status == models.CheckFailure && IsSoftFailure(c.StatusCode, c.Error)
}

// ComputeSiteStatus folds checks into an overall status. Hard failures
// dominate soft ones; ordering does not matter.
func ComputeSiteStatus(checks []models.Check) models.SiteStatus {
	sawSoft := false
	for _, c := range checks {
		if c.Status != models.CheckFailure {
			continue
		}
		if !IsSoftFailure(c.StatusCode, c.Error) {
			return models.SiteFailures
		}
		sawSoft = true
	}
	if sawSoft {
		return models.SiteTransientFailures
	}
	return models.SiteUp
}
