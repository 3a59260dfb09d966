package errors

import "net/http"

var (
	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrTooFewVertices = New(
		"TOO_FEW_VERTICES",
		"An area needs at least 3 points",
		http.StatusUnprocessableEntity,
	)

	ErrInvalidMarker = New(
		"INVALID_MARKER",
		"Marker fields are invalid",
		http.StatusUnprocessableEntity,
	)

	ErrInvalidArea = New(
		"INVALID_AREA",
		"Area fields are invalid",
		http.StatusUnprocessableEntity,
	)

	ErrModeNotActive = New(
		"MODE_NOT_ACTIVE",
		"Action not available in the current map mode",
		http.StatusConflict,
	)

	ErrDeleteNotConfirmed = New(
		"DELETE_NOT_CONFIRMED",
		"Deletion was not requested",
		http.StatusConflict,
	)

	ErrRequestInFlight = New(
		"REQUEST_IN_FLIGHT",
		"A request of this kind is already running",
		http.StatusConflict,
	)

	ErrDuplicateID = New(
		"DUPLICATE_ID",
		"An entity with this id already exists",
		http.StatusConflict,
	)

	ErrMarkerNotFound = New(
		"MARKER_NOT_FOUND",
		"Marker not found",
		http.StatusNotFound,
	)

	ErrAreaNotFound = New(
		"AREA_NOT_FOUND",
		"Area not found",
		http.StatusNotFound,
	)

	ErrSuspectNotFound = New(
		"SUSPECT_NOT_FOUND",
		"Suspect not found",
		http.StatusNotFound,
	)

	ErrSessionNotFound = New(
		"SESSION_NOT_FOUND",
		"Map session not found",
		http.StatusNotFound,
	)

	ErrLocationUnavailable = New(
		"LOCATION_UNAVAILABLE",
		"Device location is unavailable",
		http.StatusServiceUnavailable,
	)

	ErrGeocodingFailed = New(
		"GEOCODING_FAILED",
		"Address lookup failed",
		http.StatusBadGateway,
	)

	ErrMapNotReady = New(
		"MAP_NOT_READY",
		"Map is still loading",
		http.StatusConflict,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
