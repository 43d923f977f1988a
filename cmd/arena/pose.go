package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arena-client/internal/geom"
)

var (
	flagPoseX       float64
	flagPoseY       float64
	flagPoseTheta   float64
	flagPoseMove    float64
	flagPoseRel     float64
	flagPoseRotate  float64
	flagPoseToLocal bool
)

var poseCmd = &cobra.Command{
	Use:   "pose <x> <y>",
	Short: "Convert a point between local and world frames",
	Long: `Convert a point between a pose's local frame and world space.

The pose is given by --at-x, --at-y and --theta (degrees). It can first be
moved with --move/--rel and turned with --rotate, the same way ships move.
By default the point is treated as local and converted to world space;
--to-local converts a world point into the pose's frame instead.

Examples:
  arena pose 10 0 --theta 90
  arena pose 0 100 --at-x 50 --at-y 50 --to-local
  arena pose 5 5 --move 20 --rel -90 --rotate 45`,
	Args: cobra.ExactArgs(2),
	RunE: runPose,
}

func init() {
	poseCmd.Flags().Float64Var(&flagPoseX, "at-x", 0, "Pose X position")
	poseCmd.Flags().Float64Var(&flagPoseY, "at-y", 0, "Pose Y position")
	poseCmd.Flags().Float64Var(&flagPoseTheta, "theta", 0, "Pose heading in degrees")
	poseCmd.Flags().Float64Var(&flagPoseMove, "move", 0, "Move the pose this far before converting")
	poseCmd.Flags().Float64Var(&flagPoseRel, "rel", 0, "Direction of --move relative to the heading, in degrees")
	poseCmd.Flags().Float64Var(&flagPoseRotate, "rotate", 0, "Turn the pose by this many degrees before converting")
	poseCmd.Flags().BoolVar(&flagPoseToLocal, "to-local", false, "Convert a world point to the local frame")
}

func runPose(cmd *cobra.Command, args []string) error {
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid x %q: %w", args[0], err)
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid y %q: %w", args[1], err)
	}

	pose := geom.NewCoordinate(geom.New(flagPoseX, flagPoseY), flagPoseTheta)
	pose.Move(flagPoseMove, flagPoseRel)
	pose.Rotate(flagPoseRotate)

	return printPose(os.Stdout, pose, geom.New(x, y), flagPoseToLocal)
}

// printPose writes the pose, the converted point and the bearing from the
// heading to the point.
func printPose(w io.Writer, pose geom.Coordinate, p geom.Vector, toLocal bool) error {
	local, world := p, pose.ConvertToWorld(p)
	if toLocal {
		local, world = pose.ConvertToLocal(p), p
	}

	fmt.Fprintf(w, "pose:    %s theta %g\n", pose.Pos, pose.Theta)
	fmt.Fprintf(w, "local:   %s\n", local)
	fmt.Fprintf(w, "world:   %s\n", world)

	bearing, err := pose.Heading().Angle(world.Sub(pose.Pos))
	var zero *geom.ZeroVectorError
	switch {
	case errors.As(err, &zero):
		fmt.Fprintln(w, "bearing: point is at the pose")
	case err != nil:
		return err
	default:
		fmt.Fprintf(w, "bearing: %.2f deg\n", bearing)
	}
	return nil
}
