// Package errors provides structured errors for the loot resolution pipeline.
//
// Every fallible boundary returns an *Error carrying a Code. The codes map
// onto the pipeline's failure kinds:
//   - Network: transport failure or non-success status from the content endpoint
//   - Protocol: response body is not the expected JSON envelope or listing
//   - Encoding: payload is not valid base64 or not valid UTF-8
//   - Decode: loot document does not match the loot table schema
//   - NameNotFound: asset description has no quoted display name
//   - Resolution: any of the above while resolving an entry's display name
//
// # Basic Usage
//
// Creating errors:
//
//	err := errors.Protocol("listing is not a JSON array")
//	err := errors.Decodef("unknown loot variant %q", tag)
//
// Adding metadata:
//
//	err := errors.Networkf("unexpected status %d", resp.StatusCode).
//	    WithMeta("locator", locator)
//
// Wrapping errors:
//
//	if err := fetcher.Fetch(ctx, locator); err != nil {
//	    return errors.Wrap(err, "failed to fetch tier listing")
//	}
//
// Wrap keeps the code of the wrapped *Error, so a Network failure stays a
// Network failure as it travels up. Resolutionf changes the code to
// Resolution while keeping the cause reachable:
//
//	if errors.IsResolution(err) && errors.HasCode(err, errors.CodeNetwork) {
//	    // name lookup failed because the asset could not be fetched
//	}
//
// # Validation Errors
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("locator", tier.Locator, vb)
//	if err := vb.Build(); err != nil {
//	    return err
//	}
package errors
