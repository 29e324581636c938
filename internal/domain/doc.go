// Package domain models the WMO cloud taxonomy served by the atlas.
//
// # Taxonomy
//
// The catalog holds exactly ten genera, each assigned to one altitude tier:
//
//	high: Ci (권운), Cc (권적운), Cs (권층운)
//	mid:  As (고층운), Ac (고적운), Ns (난층운)
//	low:  Cu (적운), Cb (적란운), St (층운), Sc (층적운)
//
// Each genus lists species, varieties and supplementary features (SFAC). A sub-item
// is identified by its romanized name ("fibratus", "virga"). The same name under
// different genera denotes the same phenomenon, so the romanized name is the join
// key used by [BuildIndex] and [FindOccurrences]. Matching is exact and
// case-sensitive. A few supplementary features (nimbostratogenitus, flammagenitus)
// have no short code; an empty code is valid.
//
// Empty free-text fields (definition, formation, ...) are expected. Views render a
// placeholder prompt in their place.
//
// # Asset layout
//
// Gallery images are public assets addressed by path:
//
//	/clouds/{genus}/gallery/{NN}.{ext}
//	/clouds/{genus}/{species|varieties|supplementary}/{romanizedName}/{NN}.{ext}
//
// NN is a two-digit sequence number. Gallery order is display order.
//
// # Search
//
// [Search] matches a free-text query against native name, romanized name and
// symbol or code. Query and keys are both folded by [NormalizeQuery]: NFC
// composition (decomposed Hangul from some keyboards matches composed data), lower
// case, and all whitespace removed. "적 운", "CUMULUS" and "cu" all find Cumulus.
//
// # Classification
//
// The classifier is an external HTTP service. The domain only defines the upload
// preconditions ([ValidateUpload]) and the result shape ([ClassifyResult]).
package domain
