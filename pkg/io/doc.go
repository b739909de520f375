// Package io reads and writes the files consumed and produced by pathsim.
//
// # Repository Documents
//
// A repository is described by a YAML document. JSON is valid YAML, so a
// .json file with the same structure decodes too:
//
//	pathways:
//	  - id: hsa04010
//	    name: MAPK signaling pathway
//	    categories: [signal transduction]
//	    nodes:
//	      - {id: EGFR, type: gene, aliases: ["hsa:1956"]}
//	      - {id: KRAS, type: gene}
//	    edges:
//	      - {start: EGFR, end: KRAS, type: pprel, subtypes: [activation]}
//	    endpoints: [KRAS]
//	virtual:
//	  - id: hsa04010;EGFR
//	    name: EGFR branch
//	    source: hsa04010
//	    edges:
//	      - {start: EGFR, end: KRAS}
//
// Node types and edge subtypes use the names of the pathway package; an
// unknown name is an error. Nodes declared without a type, and nodes
// referenced only by edges, get type "other". Type "other" has sign 0, so
// such nodes still propagate perturbation to their children but add
// nothing to pathway accumulation. Declare signalling nodes as "gene". An
// edge without subtypes carries a single "other" relation.
//
// # Tabular Inputs
//
// Expression, constraint and node-list files are tab-separated text. Blank
// lines and lines starting with '#' are ignored:
//
//	# expression: id <TAB> log-fold-change
//	EGFR	1.8
//	KRAS	-0.4
//
//	# constraints: id <TAB> UP|DOWN|UNCHANGED [<TAB> value]
//	EGFR	UP
//	TP53	DOWN	2.5
//
// # Results
//
// [WriteJSON] and [ExportJSON] encode any result value as indented JSON.
package io
