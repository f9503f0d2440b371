// Package gosource turns Go packages into declaration trees.
//
// Roots are the package-level declarations of every non-test file:
//
//   - a struct type becomes a struct root, an interface type an interface
//     root; other type declarations are skipped.
//   - a variable of anonymous struct type becomes a struct root, with an
//     initializer child when the variable has a value.
//   - any other variable with a value becomes an initializer root.
//   - every func init becomes an initializer root named "init".
//
// Struct fields of anonymous struct type are nested struct nodes named after
// the field. Field types are identified syntactically through the file's
// imports as "importpath.TypeName", with type arguments dropped; pointers,
// slices and maps keep their decoration and never equal a plain type name.
// References made from initializers are resolved with go/types.
package gosource
