// Package tags implements the documentation tag engine: a small macro
// language that injects reusable, parameterized blocks of documentation
// into generated text.
//
// Documentation sources define tags between a #Tag: line and an #EndTag
// line, and may fall back to other sources with #Extends:
//
//	#Extends: common.doc
//
//	#Tag:Range(name, bounds)
//	${name} is valid from ${bounds[0]} to ${bounds[%1]}.
//	#EndTag
//
// Template text invokes them with #Doc:
//
//	// #Doc:Range(Latitude, [-90, 90])
//
// [Engine.Expand] rewrites each line holding an invocation, repeating whole
// passes until one finds nothing to replace. Defects such as an unknown tag
// or a bad argument list are reported to a [diag.Sink] and replaced in place
// by a sentinel like !!TagLookupFailure(Range)!!, so one defect never stops
// the rest of the text from expanding.
package tags
