/*
Package keyword implements the keyword registry core: the ordered table of
keyword records, the option chain that composes cross-cutting wrappers onto a
raw keyword function, the bound handle used to invoke a keyword against one
library instance, and the per-instance mutable state (contexts and sessions)
passed to every keyword at call time.

Keywords are stored under canonical lower_case keys and exposed under public
CapitalizedWord names; both forms resolve through the table.
*/
package keyword
