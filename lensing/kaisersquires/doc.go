// Package kaisersquires implements the classical Kaiser-Squires linear
// inversion between weak-lensing shear and convergence maps.
//
// In the Fourier domain shear and convergence are related bin-wise by
//
//	gamma(k) = D(k) * kappa(k),  D(k) = ((k1^2 - k2^2) + 2i*k1*k2) / (k1^2 + k2^2)
//
// with |D(k)| = 1 away from k = 0, so the inversion is multiplication by the
// complex conjugate of D. The k = 0 mode carries the mean convergence, which
// shear does not constrain (the mass-sheet degeneracy); both directions zero
// it, so reconstructed maps always have zero mean.
//
// # Usage
//
// For repeated transforms at a fixed grid size, create a reusable transform:
//
//	t, err := kaisersquires.New(256, 256)
//	gamma, err := t.Forward(kappa)   // convergence -> shear
//	kappa, err := t.Inverse(gamma)   // shear -> convergence (E-mode)
//
// For one-shot use, the package-level [Forward] and [Inverse] helpers create
// a temporary transform.
//
// Inversion of noisy shear also produces a B-mode map, which for pure
// lensing signal should vanish; [Transform.InverseEB] returns both modes as
// a systematics check.
package kaisersquires
