// Package segment defines the core value types of the segmentation pipeline:
// time spans, labeled segments, annotations and duration-bounded chunks.
// It also provides the shared support merge primitive that unions intervals
// separated by less than a collar.
package segment
