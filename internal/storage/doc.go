// Package storage owns the artifact root layout and stored-name
// identity for the photo-gallery pipeline.
//
// Every original lives at photos/<storedName>, where the stored name is
// a generated timestamp-plus-random filename whose extension-stripped
// form is the photo's stable id. Derivatives are keyed by the same
// stored name: thumbnails/<storedName>, photos/medium_<storedName>, and
// webp/<id>.webp.
package storage
