// Package dataprocessing decodes downloaded supplier order files into
// the raw row tables consumed by the transformation pipeline.
//
// Supplier terminals emit headerless delimited files with no declared
// encoding and no consistent separator, so decoding is defensive: the
// reader tries the known separators and encodings in order and keeps
// the first combination that yields plausible rows. Structural noise
// (blank lines, a UTF-8 BOM, ragged rows) is absorbed rather than
// rejected; only a file that defeats every attempt is reported as
// unreadable so the caller can skip it and keep going.
package dataprocessing
