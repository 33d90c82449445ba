// Package kernel provides shared value objects for the freight domain.
//
// The package includes:
//   - UUID: validated identifier wrapping github.com/google/uuid
//   - GeoPoint: WGS84 coordinate pair with great-circle and local planar
//     distance math used by radius and corridor matching
//
// All value objects are immutable and must be created through their
// constructor functions; zero values fail validation.
package kernel
