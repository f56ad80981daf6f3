// Package derivative produces the canonical derivative set for a stored
// original: a 300x300 cover-cropped JPEG thumbnail, a JPEG bounded to
// 1200x900, and a WebP bounded to 1200x900. All three derive from the
// same decoded source image and each generation is isolated, so a
// record may end up with any subset of derivatives.
package derivative
