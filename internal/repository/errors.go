package repository

import apperrors "github.com/kyletbuzbee/Website-Templates-sub002/internal/errors"

// errNoFetcher is returned by repositories built for local files only.
var errNoFetcher = apperrors.NewInternalError("repository has no HTTP fetcher", nil)
