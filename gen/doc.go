// Package gen renders declared quantities and units into source text.
//
// Each entity is executed through the text/template named after its family
// (scalar.tmpl, vector.tmpl or unit.tmpl). Template functions resolve
// reference tokens through a [resolve.Resolver], and the rendered text is
// passed through a [tags.Engine] with the entity's documentation source:
//
//	<docs>/<family>/<Name>.doc   if it exists
//	<docs>/<family>.doc          otherwise
//
// The result is written to <out>/<family>/<Name><ext> below a generated-code
// header. [Watcher] reruns generation from scratch whenever an input
// changes.
package gen
