// Package wordlist is a dictionary backend for the spell checker built on
// plain word lists.
//
// A Broker scans a list of directories for files named <code>.dic or
// <code>.txt. Hunspell dictionaries work unchanged: the leading word count
// and the affix flags after '/' are stripped and the character set named
// by the companion .aff file is decoded. Affix expansion is not performed,
// so a Hunspell list only accepts its stem forms.
//
// Words added with AddToPersonal are appended to <personal dir>/<code>.pwl
// and the directory is watched, so edits made by other processes are picked
// up without a restart.
package wordlist
